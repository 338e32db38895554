package service

import (
	"context"
	"sync"
	"time"

	"chain_insight/internal/app/port"
	"chain_insight/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

// Version is reported by /health.
const Version = "1.0.0"

// Overall health values.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// HealthServiceImpl implements port.HealthService. Reports are cached per network so that
// frequent /health polling does not turn into upstream traffic.
type HealthServiceImpl struct {
	registry     port.NetworkRegistry
	explorer     port.ExplorerSource
	indexer      port.IndexerSource
	logger       port.Logger
	cache        *cache.Cache
	probeTimeout time.Duration
}

var _ port.HealthService = (*HealthServiceImpl)(nil)

// NewHealthService creates a new instance of HealthServiceImpl.
func NewHealthService(
	registry port.NetworkRegistry,
	explorer port.ExplorerSource,
	indexer port.IndexerSource,
	l port.Logger,
	ttl time.Duration,
	probeTimeout time.Duration,
) *HealthServiceImpl {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &HealthServiceImpl{
		registry:     registry,
		explorer:     explorer,
		indexer:      indexer,
		logger:       l,
		cache:        cache.New(ttl, 2*ttl),
		probeTimeout: probeTimeout,
	}
}

// Check probes both upstreams for the active network, or returns a cached report.
func (h *HealthServiceImpl) Check(ctx context.Context) entity.HealthReport {
	profile := h.registry.Active()
	if cached, ok := h.cache.Get(profile.ID); ok {
		if report, ok := cached.(entity.HealthReport); ok {
			return report
		}
	}

	ctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
	defer cancel()

	var explorerHealth, indexerHealth entity.ServiceHealth
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		explorerHealth = h.probeExplorer(ctx, profile)
	}()
	go func() {
		defer wg.Done()
		indexerHealth = h.probeIndexer(ctx)
	}()
	wg.Wait()

	status := HealthHealthy
	switch {
	case explorerHealth.Status != entity.StatusConnected:
		status = HealthUnhealthy
	case indexerHealth.Status == entity.StatusError:
		status = HealthDegraded
	}
	if status != HealthHealthy {
		h.logger.Warn("Health check degraded",
			"network", profile.ID,
			"status", status,
			"explorer", explorerHealth.Status,
			"indexer", indexerHealth.Status,
		)
	}

	report := entity.HealthReport{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Network:   profile.ID,
		Services: map[string]entity.ServiceHealth{
			h.explorer.SourceID(): explorerHealth,
			h.indexer.SourceID():  indexerHealth,
		},
	}
	h.cache.SetDefault(profile.ID, report)
	return report
}

func (h *HealthServiceImpl) probeExplorer(ctx context.Context, profile entity.NetworkProfile) entity.ServiceHealth {
	latest, err := h.explorer.LatestBlockNumber(ctx, profile)
	if err != nil {
		return entity.ServiceHealth{Status: entity.StatusError, Error: err.Error()}
	}
	return entity.ServiceHealth{Status: entity.StatusConnected, LatestBlock: latest}
}

// probeIndexer never calls an unconfigured indexer.
func (h *HealthServiceImpl) probeIndexer(ctx context.Context) entity.ServiceHealth {
	if ok, reason := h.indexer.Configured(); !ok {
		return entity.ServiceHealth{Status: entity.StatusNotConfigured, Error: reason}
	}
	meta, err := h.indexer.HealthCheck(ctx)
	if err != nil {
		return entity.ServiceHealth{Status: entity.StatusError, Error: err.Error()}
	}
	return entity.ServiceHealth{
		Status:      entity.StatusConnected,
		LatestBlock: meta.BlockNumber,
		LastUpdated: meta.TimestampUnix,
	}
}
