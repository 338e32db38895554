package service

import (
	"context"
	"sync"
	"testing"

	"chain_insight/internal/domain/entity"
	networkdefinition "chain_insight/internal/infrastructure/network/definition"

	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var testProfiles = []entity.NetworkProfile{
	{
		ID:              "mainnet",
		DisplayName:     "Ethereum Mainnet",
		ChainID:         1,
		ProviderBaseURL: "https://api.etherscan.io/api",
		ExplorerBaseURL: "https://etherscan.io",
		Credential:      "key",
	},
	{
		ID:              "sepolia",
		DisplayName:     "Sepolia Testnet",
		ChainID:         11155111,
		ProviderBaseURL: "https://api-sepolia.etherscan.io/api",
		ExplorerBaseURL: "https://sepolia.etherscan.io",
		Credential:      "key",
	},
}

func newTestRegistry(t *testing.T) *networkdefinition.Registry {
	t.Helper()
	reg, err := networkdefinition.NewRegistry(nopLogger{}, testProfiles, "mainnet")
	require.NoError(t, err)
	return reg
}

type fakeExplorer struct {
	mu sync.Mutex

	block    entity.NormalizedBlock
	blockErr error

	core    entity.WalletCore
	coreErr error
	// onCore runs before FetchWalletCore answers; it may block.
	onCore func(ctx context.Context, profile entity.NetworkProfile) error

	latest    uint64
	latestErr error
	onLatest  func()

	blockCalls  int
	coreCalls   int
	latestCalls int
	networks    []string
}

func (f *fakeExplorer) SourceID() string { return "etherscan" }

func (f *fakeExplorer) FetchBlock(_ context.Context, profile entity.NetworkProfile, number uint64) (entity.NormalizedBlock, error) {
	f.mu.Lock()
	f.blockCalls++
	f.networks = append(f.networks, profile.ID)
	f.mu.Unlock()
	if f.blockErr != nil {
		return entity.NormalizedBlock{}, f.blockErr
	}
	b := f.block
	b.Number = number
	return b, nil
}

func (f *fakeExplorer) FetchWalletCore(ctx context.Context, profile entity.NetworkProfile, _ string) (entity.WalletCore, error) {
	f.mu.Lock()
	f.coreCalls++
	f.networks = append(f.networks, profile.ID)
	hook := f.onCore
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, profile); err != nil {
			return entity.WalletCore{}, err
		}
	}
	if f.coreErr != nil {
		return entity.WalletCore{}, f.coreErr
	}
	core := f.core
	core.Transactions = append([]entity.NormalizedTransaction(nil), f.core.Transactions...)
	return core, nil
}

func (f *fakeExplorer) LatestBlockNumber(_ context.Context, profile entity.NetworkProfile) (uint64, error) {
	f.mu.Lock()
	f.latestCalls++
	f.networks = append(f.networks, profile.ID)
	hook := f.onLatest
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.latest, f.latestErr
}

func (f *fakeExplorer) calls() (block, core, latest int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blockCalls, f.coreCalls, f.latestCalls
}

type fakeIndexer struct {
	mu sync.Mutex

	configured bool
	reason     string

	result entity.IndexedEntity
	err    error
	// waitForCancel makes FetchIndexedEntity block until its context ends.
	waitForCancel bool
	cancelled     chan struct{}

	health    entity.IndexerHealth
	healthErr error
	onHealth  func()

	queries     []entity.IndexedQuery
	healthCalls int
}

func (f *fakeIndexer) SourceID() string { return "thegraph" }

func (f *fakeIndexer) Configured() (bool, string) { return f.configured, f.reason }

func (f *fakeIndexer) Subgraphs() map[string]string {
	return map[string]string{"uniswapV3": "sub-v3"}
}

func (f *fakeIndexer) FetchIndexedEntity(ctx context.Context, q entity.IndexedQuery) (entity.IndexedEntity, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.waitForCancel {
		<-ctx.Done()
		if f.cancelled != nil {
			close(f.cancelled)
		}
		return entity.IndexedEntity{}, entity.NewSourceError(entity.KindSourceUnavailable, "thegraph-uniswap-v3", "request timed out", ctx.Err())
	}
	if f.err != nil {
		return entity.IndexedEntity{}, f.err
	}
	res := f.result
	res.Kind = q.Kind
	return res, nil
}

func (f *fakeIndexer) HealthCheck(context.Context) (entity.IndexerHealth, error) {
	f.mu.Lock()
	f.healthCalls++
	hook := f.onHealth
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.health, f.healthErr
}

func (f *fakeIndexer) queryLog() []entity.IndexedQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.IndexedQuery(nil), f.queries...)
}
