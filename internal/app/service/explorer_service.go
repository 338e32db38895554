package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chain_insight/internal/app/port"
	"chain_insight/internal/domain/entity"
	"chain_insight/internal/pkg/metrics"
	"chain_insight/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	defaultExplorerTimeout   = 10 * time.Second
	defaultEnrichmentTimeout = 8 * time.Second
	defaultSwapLimit         = 10
)

// Enrichment statuses, reported in diagnostics and metrics.
const (
	enrichmentOK            = "ok"
	enrichmentEmpty         = "empty"
	enrichmentNotConfigured = "not_configured"
	enrichmentFailed        = "failed"
)

const txListDegraded = "degraded"

// ExplorerOptions tunes ExplorerServiceImpl. Zero values fall back to defaults.
type ExplorerOptions struct {
	ExplorerTimeout    time.Duration
	EnrichmentTimeout  time.Duration
	SwapLimit          int
	ExplorerConfigured bool
}

// ExplorerServiceImpl implements port.ExplorerService.
type ExplorerServiceImpl struct {
	registry port.NetworkRegistry
	explorer port.ExplorerSource
	indexer  port.IndexerSource
	logger   port.Logger
	opts     ExplorerOptions
}

var _ port.ExplorerService = (*ExplorerServiceImpl)(nil)

// NewExplorerService creates a new instance of ExplorerServiceImpl.
func NewExplorerService(
	registry port.NetworkRegistry,
	explorer port.ExplorerSource,
	indexer port.IndexerSource,
	l port.Logger,
	opts ExplorerOptions,
) *ExplorerServiceImpl {
	if opts.ExplorerTimeout <= 0 {
		opts.ExplorerTimeout = defaultExplorerTimeout
	}
	if opts.EnrichmentTimeout <= 0 {
		opts.EnrichmentTimeout = defaultEnrichmentTimeout
	}
	if opts.SwapLimit <= 0 {
		opts.SwapLimit = defaultSwapLimit
	}
	return &ExplorerServiceImpl{
		registry: registry,
		explorer: explorer,
		indexer:  indexer,
		logger:   l,
		opts:     opts,
	}
}

// resolveProfile reads the registry exactly once. An empty id means the active network.
func (s *ExplorerServiceImpl) resolveProfile(networkID string) (entity.NetworkProfile, error) {
	if networkID == "" {
		return s.registry.Active(), nil
	}
	profile, ok := s.registry.Lookup(networkID)
	if !ok {
		return entity.NetworkProfile{}, fmt.Errorf("%w: %q", entity.ErrUnknownNetwork, networkID)
	}
	return profile, nil
}

// GetBlockView fetches one block from the explorer. A missing block stays a typed not_found error.
func (s *ExplorerServiceImpl) GetBlockView(ctx context.Context, networkID string, number uint64) (entity.NormalizedBlock, error) {
	profile, err := s.resolveProfile(networkID)
	if err != nil {
		return entity.NormalizedBlock{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.ExplorerTimeout)
	defer cancel()

	s.logger.Debug("Fetching block", "network", profile.ID, "block", number)
	block, err := s.explorer.FetchBlock(ctx, profile, number)
	if err != nil {
		s.logger.Warn("Block lookup failed", "network", profile.ID, "block", number, "kind", entity.KindOf(err), "error", err)
		return entity.NormalizedBlock{}, err
	}
	return block, nil
}

type enrichmentOutcome struct {
	status     string
	sourceID   string
	activity   *entity.DefiActivity
	diagnostic *entity.SourceDiagnostic
}

// GetWalletView combines the required explorer core with optional swap enrichment.
// Enrichment runs concurrently under its own timeout; any failure there is absorbed into
// Diagnostics and never fails the view. A failure of the explorer fails the whole call.
func (s *ExplorerServiceImpl) GetWalletView(ctx context.Context, networkID string, address string) (*entity.WalletView, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q is not a 20-byte hex address", entity.ErrInvalidInput, address)
	}
	profile, err := s.resolveProfile(networkID)
	if err != nil {
		return nil, err
	}

	enrichCtx, cancelEnrich := context.WithTimeout(ctx, s.opts.EnrichmentTimeout)
	defer cancelEnrich()

	enrichCh := make(chan enrichmentOutcome, 1)
	if configured, reason := s.indexer.Configured(); configured {
		go func() {
			enrichCh <- s.enrich(enrichCtx, address)
		}()
	} else {
		enrichCh <- enrichmentOutcome{
			status:   enrichmentNotConfigured,
			sourceID: s.indexer.SourceID(),
			diagnostic: &entity.SourceDiagnostic{
				Source: s.indexer.SourceID(),
				Status: enrichmentNotConfigured,
				Kind:   entity.KindNotConfigured,
				Reason: reason,
			},
		}
	}

	coreCtx, cancelCore := context.WithTimeout(ctx, s.opts.ExplorerTimeout)
	core, err := s.explorer.FetchWalletCore(coreCtx, profile, address)
	cancelCore()
	if err != nil {
		cancelEnrich()
		s.logger.Warn("Wallet lookup failed", "network", profile.ID, "address", address, "kind", entity.KindOf(err), "error", err)
		return nil, err
	}

	txs := core.Transactions
	if txs == nil {
		txs = []entity.NormalizedTransaction{}
	}
	for i := range txs {
		txs[i].Classification = s.classify(txs[i].RawInput, txs[i].Hash)
	}

	balanceWei := "0"
	if core.BalanceWei != nil {
		balanceWei = core.BalanceWei.String()
	}
	formatted, err := utils.FormatBigInt(core.BalanceWei, utils.WeiDecimals)
	if err != nil {
		s.logger.Warn("Failed to format balance", "address", address, "error", err)
		formatted = entity.NotAvailable
	}

	view := &entity.WalletView{
		Address:          address,
		Network:          profile.ID,
		BalanceWei:       balanceWei,
		BalanceFormatted: formatted,
		Transactions:     txs,
		DataSources:      []string{s.explorer.SourceID()},
		ExplorerURL:      profile.AddressURL(address),
	}
	if core.TxListNotice != "" {
		view.Diagnostics = append(view.Diagnostics, entity.SourceDiagnostic{
			Source: s.explorer.SourceID(),
			Status: txListDegraded,
			Reason: core.TxListNotice,
		})
	}

	outcome := <-enrichCh
	metrics.EnrichmentOutcomes.WithLabelValues(outcome.sourceID, outcome.status).Inc()
	if outcome.status == enrichmentOK {
		view.Enrichment = outcome.activity
		view.DataSources = append(view.DataSources, outcome.sourceID)
	} else if outcome.diagnostic != nil {
		view.Diagnostics = append(view.Diagnostics, *outcome.diagnostic)
		if outcome.status == enrichmentFailed {
			s.logger.Warn("Enrichment absorbed",
				"source", outcome.diagnostic.Source,
				"address", address,
				"kind", outcome.diagnostic.Kind,
				"reason", outcome.diagnostic.Reason,
			)
		}
	}

	return view, nil
}

func (s *ExplorerServiceImpl) enrich(ctx context.Context, address string) enrichmentOutcome {
	res, err := s.indexer.FetchIndexedEntity(ctx, entity.IndexedQuery{
		Kind:    entity.IndexedWalletSwaps,
		Address: address,
		First:   s.opts.SwapLimit,
	})
	if err != nil {
		source := s.indexer.SourceID()
		var srcErr *entity.SourceError
		if errors.As(err, &srcErr) && srcErr.Source != "" {
			source = srcErr.Source
		}
		kind := entity.KindOf(err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			kind = entity.KindSourceUnavailable
		}
		status := enrichmentFailed
		if kind == entity.KindNotConfigured {
			status = enrichmentNotConfigured
		}
		return enrichmentOutcome{
			status:   status,
			sourceID: source,
			diagnostic: &entity.SourceDiagnostic{
				Source: source,
				Status: status,
				Kind:   kind,
				Reason: err.Error(),
			},
		}
	}

	if len(res.Swaps) == 0 {
		return enrichmentOutcome{
			status:   enrichmentEmpty,
			sourceID: res.SourceID,
			diagnostic: &entity.SourceDiagnostic{
				Source: res.SourceID,
				Status: enrichmentEmpty,
				Reason: "no swaps indexed for address",
			},
		}
	}

	var volume float64
	for _, swap := range res.Swaps {
		volume += swap.AmountUSD
	}
	return enrichmentOutcome{
		status:   enrichmentOK,
		sourceID: res.SourceID,
		activity: &entity.DefiActivity{
			RecentSwaps:    res.Swaps,
			SwapCount:      len(res.Swaps),
			TotalVolumeUSD: volume,
		},
	}
}

func (s *ExplorerServiceImpl) classify(payload, txHash string) entity.InputClassification {
	c := ClassifyInput(payload)
	metrics.InputClassifications.WithLabelValues(string(c.Kind)).Inc()
	if c.DecodeAnomaly != "" {
		s.logger.Debug("Input payload decode anomaly", "tx", txHash, "anomaly", c.DecodeAnomaly)
	}
	return c
}

// ClassifyInput classifies a standalone payload.
func (s *ExplorerServiceImpl) ClassifyInput(payload string) entity.InputClassification {
	return s.classify(payload, "")
}

// SwitchNetwork changes the active network for subsequent requests only.
func (s *ExplorerServiceImpl) SwitchNetwork(id string) (entity.NetworkSwitch, error) {
	prev, next, err := s.registry.Switch(id)
	if err != nil {
		return entity.NetworkSwitch{}, err
	}
	metrics.NetworkSwitches.Inc()
	return entity.NetworkSwitch{
		Success:     true,
		OldNetwork:  prev.ID,
		NewNetwork:  next.ID,
		NetworkName: next.DisplayName,
	}, nil
}

func (s *ExplorerServiceImpl) ListNetworks() []entity.NetworkSummary {
	return s.registry.List()
}

func (s *ExplorerServiceImpl) ActiveNetwork() entity.NetworkSummary {
	return s.registry.Active().Summary()
}

// QueryIndexed runs a direct lookup against the indexer. Unlike enrichment, failures are returned.
func (s *ExplorerServiceImpl) QueryIndexed(ctx context.Context, query entity.IndexedQuery) (entity.IndexedEntity, error) {
	switch query.Kind {
	case entity.IndexedWalletSwaps, entity.IndexedToken, entity.IndexedPool:
		if !common.IsHexAddress(query.Address) {
			return entity.IndexedEntity{}, fmt.Errorf("%w: %q is not a 20-byte hex address", entity.ErrInvalidInput, query.Address)
		}
	case entity.IndexedENSDomain:
		query.Name = strings.TrimSpace(query.Name)
		if query.Name == "" {
			return entity.IndexedEntity{}, fmt.Errorf("%w: empty domain name", entity.ErrInvalidInput)
		}
	case entity.IndexedTransaction:
		query.Hash = strings.TrimSpace(query.Hash)
		if b, err := hexutil.Decode(query.Hash); err != nil || len(b) != common.HashLength {
			return entity.IndexedEntity{}, fmt.Errorf("%w: %q is not a 32-byte transaction hash", entity.ErrInvalidInput, query.Hash)
		}
	}
	if query.First <= 0 {
		query.First = s.opts.SwapLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.EnrichmentTimeout)
	defer cancel()

	res, err := s.indexer.FetchIndexedEntity(ctx, query)
	if err != nil {
		s.logger.Debug("Indexed lookup failed", "kind", query.Kind, "errorKind", entity.KindOf(err), "error", err)
		return entity.IndexedEntity{}, err
	}
	return res, nil
}

// ConfigStatus reports which sources are usable. Credentials never leave this method.
func (s *ExplorerServiceImpl) ConfigStatus() entity.ConfigStatus {
	indexerConfigured, reason := s.indexer.Configured()
	return entity.ConfigStatus{
		ExplorerConfigured: s.opts.ExplorerConfigured,
		IndexerConfigured:  indexerConfigured,
		IndexerReason:      reason,
		Subgraphs:          s.indexer.Subgraphs(),
		Networks:           s.registry.List(),
		CurrentNetwork:     s.registry.Active().ID,
		Features: map[string]bool{
			"blockLookup":         true,
			"walletLookup":        true,
			"inputClassification": true,
			"networkSwitch":       true,
			"defiEnrichment":      indexerConfigured,
			"ensLookup":           indexerConfigured,
			"dexTransaction":      indexerConfigured,
		},
	}
}

// ParseBlockNumber accepts a decimal number or a 0x-prefixed hex quantity.
func ParseBlockNumber(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: empty block number", entity.ErrInvalidInput)
	}
	if utils.HasHexPrefix(input) {
		if n, err := hexutil.DecodeUint64(strings.ToLower(input)); err == nil {
			return n, nil
		}
		// hexutil rejects leading zeros such as 0x0a.
		n, err := strconv.ParseUint(utils.StripHexPrefix(input), 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: block number %q is not a hex quantity", entity.ErrInvalidInput, input)
		}
		return n, nil
	}
	n, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: block number %q is not a number", entity.ErrInvalidInput, input)
	}
	return n, nil
}
