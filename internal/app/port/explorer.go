package port

import (
	"context"

	"chain_insight/internal/domain/entity"
)

// ExplorerService is the aggregation engine consumed by the REST layer.
// An empty networkID means "the active network at call time".
type ExplorerService interface {
	GetBlockView(ctx context.Context, networkID string, number uint64) (entity.NormalizedBlock, error)
	GetWalletView(ctx context.Context, networkID string, address string) (*entity.WalletView, error)
	ClassifyInput(payload string) entity.InputClassification
	SwitchNetwork(id string) (entity.NetworkSwitch, error)
	ListNetworks() []entity.NetworkSummary
	ActiveNetwork() entity.NetworkSummary
	QueryIndexed(ctx context.Context, query entity.IndexedQuery) (entity.IndexedEntity, error)
	ConfigStatus() entity.ConfigStatus
}

// HealthService probes upstream sources for the /health endpoint.
type HealthService interface {
	Check(ctx context.Context) entity.HealthReport
}
