package port

import (
	"context"

	"chain_insight/internal/domain/entity"
)

// ExplorerSource is the block-explorer REST provider. It is the required source for blocks and wallets.
type ExplorerSource interface {
	SourceID() string

	// FetchBlock returns entity.ErrNotFound (as a *entity.SourceError) when the block does not exist.
	FetchBlock(ctx context.Context, profile entity.NetworkProfile, number uint64) (entity.NormalizedBlock, error)

	// FetchWalletCore reads balance and transaction list concurrently.
	// Transactions are not classified yet.
	FetchWalletCore(ctx context.Context, profile entity.NetworkProfile, address string) (entity.WalletCore, error)

	LatestBlockNumber(ctx context.Context, profile entity.NetworkProfile) (uint64, error)
}

// IndexerSource is the query-language indexing provider. It is only ever used as enrichment
// or for direct indexed lookups.
type IndexerSource interface {
	SourceID() string

	// Configured reports whether a usable credential exists, with the reason when it does not.
	Configured() (bool, string)

	// FetchIndexedEntity returns entity.ErrNotConfigured without issuing a call when no credential is set,
	// and entity.ErrNotFound when the upstream answered without a matching entity.
	FetchIndexedEntity(ctx context.Context, query entity.IndexedQuery) (entity.IndexedEntity, error)

	HealthCheck(ctx context.Context) (entity.IndexerHealth, error)

	// Subgraphs returns the subgraph ids by key.
	Subgraphs() map[string]string
}
