package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"chain_insight/internal/domain/entity"
	"chain_insight/internal/infrastructure/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func walletCore() entity.WalletCore {
	balance, _ := new(big.Int).SetString("1234500000000000000", 10)
	return entity.WalletCore{
		BalanceWei: balance,
		Transactions: []entity.NormalizedTransaction{
			{Hash: "0xaa", RawInput: "0x"},
			{Hash: "0xbb", RawInput: "0xa9059cbb" + "000000000000000000000000742d35cc6634c0532925a3b844bc454e4438f44e"},
			{Hash: "0xcc", RawInput: "0xabc"},
		},
	}
}

func newService(t *testing.T, ex *fakeExplorer, ix *fakeIndexer, opts ExplorerOptions) *ExplorerServiceImpl {
	t.Helper()
	return NewExplorerService(newTestRegistry(t), ex, ix, nopLogger{}, opts)
}

func TestGetWalletViewIndexerNotConfigured(t *testing.T) {
	ex := &fakeExplorer{core: walletCore()}
	ix := &fakeIndexer{configured: false, reason: "API key not supplied"}
	svc := newService(t, ex, ix, ExplorerOptions{})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)

	assert.Equal(t, []string{"etherscan"}, view.DataSources)
	assert.Nil(t, view.Enrichment)
	assert.Empty(t, ix.queryLog(), "unconfigured indexer must not be called")
	require.Len(t, view.Diagnostics, 1)
	assert.Equal(t, entity.SourceDiagnostic{
		Source: "thegraph",
		Status: "not_configured",
		Kind:   entity.KindNotConfigured,
		Reason: "API key not supplied",
	}, view.Diagnostics[0])

	assert.Equal(t, "mainnet", view.Network)
	assert.Equal(t, "1234500000000000000", view.BalanceWei)
	assert.Equal(t, "1.2345", view.BalanceFormatted)
	assert.Equal(t, "https://etherscan.io/address/"+testAddress, view.ExplorerURL)
}

func TestGetWalletViewClassifiesEveryTransaction(t *testing.T) {
	svc := newService(t, &fakeExplorer{core: walletCore()}, &fakeIndexer{}, ExplorerOptions{})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)
	require.Len(t, view.Transactions, 3)

	assert.Equal(t, entity.InputKindEmpty, view.Transactions[0].Classification.Kind)
	assert.Equal(t, entity.InputKindContractCall, view.Transactions[1].Classification.Kind)
	assert.Equal(t, "0xa9059cbb", view.Transactions[1].Classification.FunctionSelector)
	assert.Equal(t, 1, view.Transactions[1].Classification.ParameterCount)
	assert.Equal(t, entity.InputKindUnknown, view.Transactions[2].Classification.Kind)
	assert.NotEmpty(t, view.Transactions[2].Classification.DecodeAnomaly)
}

func TestGetWalletViewWithSwaps(t *testing.T) {
	ix := &fakeIndexer{
		configured: true,
		result: entity.IndexedEntity{
			SourceID: "thegraph-uniswap-v3",
			Swaps: []entity.Swap{
				{ID: "s1", AmountUSD: 100.5},
				{ID: "s2", AmountUSD: 20.25},
			},
		},
	}
	svc := newService(t, &fakeExplorer{core: walletCore()}, ix, ExplorerOptions{SwapLimit: 7})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)

	assert.Equal(t, []string{"etherscan", "thegraph-uniswap-v3"}, view.DataSources)
	require.NotNil(t, view.Enrichment)
	assert.Equal(t, 2, view.Enrichment.SwapCount)
	assert.InDelta(t, 120.75, view.Enrichment.TotalVolumeUSD, 1e-9)
	assert.Empty(t, view.Diagnostics)

	queries := ix.queryLog()
	require.Len(t, queries, 1)
	assert.Equal(t, entity.IndexedWalletSwaps, queries[0].Kind)
	assert.Equal(t, testAddress, queries[0].Address)
	assert.Equal(t, 7, queries[0].First)
}

func TestGetWalletViewEmptySwapsIsNotADataSource(t *testing.T) {
	ix := &fakeIndexer{configured: true, result: entity.IndexedEntity{SourceID: "thegraph-uniswap-v3"}}
	svc := newService(t, &fakeExplorer{core: walletCore()}, ix, ExplorerOptions{})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)

	assert.Equal(t, []string{"etherscan"}, view.DataSources)
	assert.Nil(t, view.Enrichment)
	require.Len(t, view.Diagnostics, 1)
	assert.Equal(t, "empty", view.Diagnostics[0].Status)
}

func TestGetWalletViewEnrichmentFailureIsAbsorbed(t *testing.T) {
	ix := &fakeIndexer{
		configured: true,
		err:        entity.NewSourceError(entity.KindSourceUnavailable, "thegraph-uniswap-v3", "upstream returned 500", nil),
	}
	svc := newService(t, &fakeExplorer{core: walletCore()}, ix, ExplorerOptions{})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)

	assert.Equal(t, []string{"etherscan"}, view.DataSources)
	assert.Nil(t, view.Enrichment)
	require.Len(t, view.Diagnostics, 1)
	assert.Equal(t, "thegraph-uniswap-v3", view.Diagnostics[0].Source)
	assert.Equal(t, "failed", view.Diagnostics[0].Status)
	assert.Equal(t, entity.KindSourceUnavailable, view.Diagnostics[0].Kind)
	assert.Contains(t, view.Diagnostics[0].Reason, "upstream returned 500")
}

func TestGetWalletViewRequiredFailure(t *testing.T) {
	transportErr := &httpclient.TransportError{Kind: httpclient.KindConnection, Message: "connection refused"}
	ex := &fakeExplorer{
		coreErr: entity.NewSourceError(entity.KindSourceUnavailable, "etherscan", transportErr.Message, transportErr),
	}
	ix := &fakeIndexer{configured: true, waitForCancel: true, cancelled: make(chan struct{})}
	svc := newService(t, ex, ix, ExplorerOptions{EnrichmentTimeout: time.Minute})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.Error(t, err)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)

	var te *httpclient.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "connection refused", te.Message)

	select {
	case <-ix.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("enrichment was not cancelled after the required source failed")
	}
}

func TestGetWalletViewEnrichmentTimeoutIsIsolated(t *testing.T) {
	ex := &fakeExplorer{
		core: walletCore(),
		onCore: func(ctx context.Context, _ entity.NetworkProfile) error {
			// Outlive the enrichment deadline; the explorer context must still be live.
			time.Sleep(100 * time.Millisecond)
			return ctx.Err()
		},
	}
	ix := &fakeIndexer{configured: true, waitForCancel: true}
	svc := newService(t, ex, ix, ExplorerOptions{
		ExplorerTimeout:   5 * time.Second,
		EnrichmentTimeout: 20 * time.Millisecond,
	})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)
	assert.Equal(t, []string{"etherscan"}, view.DataSources)
	assert.Nil(t, view.Enrichment)
	require.Len(t, view.Diagnostics, 1)
	assert.Equal(t, "failed", view.Diagnostics[0].Status)
	assert.Equal(t, entity.KindSourceUnavailable, view.Diagnostics[0].Kind)
}

func TestGetWalletViewSwitchIsNotRetroactive(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ex := &fakeExplorer{
		core: walletCore(),
		onCore: func(_ context.Context, profile entity.NetworkProfile) error {
			if profile.ID == "mainnet" {
				close(started)
				<-release
			}
			return nil
		},
	}
	svc := newService(t, ex, &fakeIndexer{}, ExplorerOptions{})

	type result struct {
		view *entity.WalletView
		err  error
	}
	done := make(chan result, 1)
	go func() {
		v, err := svc.GetWalletView(context.Background(), "", testAddress)
		done <- result{v, err}
	}()

	<-started
	sw, err := svc.SwitchNetwork("sepolia")
	require.NoError(t, err)
	assert.Equal(t, entity.NetworkSwitch{Success: true, OldNetwork: "mainnet", NewNetwork: "sepolia", NetworkName: "Sepolia Testnet"}, sw)
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "mainnet", res.view.Network)
	assert.Equal(t, "https://etherscan.io/address/"+testAddress, res.view.ExplorerURL)

	next, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", next.Network)
}

func TestGetWalletViewTxListNotice(t *testing.T) {
	core := walletCore()
	core.Transactions = nil
	core.TxListNotice = "NOTOK: Max rate limit reached"
	svc := newService(t, &fakeExplorer{core: core}, &fakeIndexer{}, ExplorerOptions{})

	view, err := svc.GetWalletView(context.Background(), "", testAddress)
	require.NoError(t, err)
	assert.NotNil(t, view.Transactions)
	assert.Empty(t, view.Transactions)
	require.Len(t, view.Diagnostics, 2)
	assert.Equal(t, entity.SourceDiagnostic{Source: "etherscan", Status: "degraded", Reason: "NOTOK: Max rate limit reached"}, view.Diagnostics[0])
}

func TestGetWalletViewRejectsBadInput(t *testing.T) {
	ex := &fakeExplorer{core: walletCore()}
	svc := newService(t, ex, &fakeIndexer{}, ExplorerOptions{})

	_, err := svc.GetWalletView(context.Background(), "", "0x1234")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.GetWalletView(context.Background(), "polygon", testAddress)
	assert.ErrorIs(t, err, entity.ErrUnknownNetwork)
	assert.Equal(t, entity.KindUnknownNetwork, entity.KindOf(err))

	_, core, _ := ex.calls()
	assert.Zero(t, core)
}

func TestGetWalletViewExplicitNetwork(t *testing.T) {
	ex := &fakeExplorer{core: walletCore()}
	svc := newService(t, ex, &fakeIndexer{}, ExplorerOptions{})

	view, err := svc.GetWalletView(context.Background(), "sepolia", testAddress)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", view.Network)
	assert.Equal(t, "mainnet", svc.ActiveNetwork().ID)
}

func TestGetBlockView(t *testing.T) {
	ex := &fakeExplorer{block: entity.NormalizedBlock{Hash: "0xabc", SourceID: "etherscan"}}
	svc := newService(t, ex, &fakeIndexer{}, ExplorerOptions{})

	block, err := svc.GetBlockView(context.Background(), "", 68943)
	require.NoError(t, err)
	assert.Equal(t, uint64(68943), block.Number)
	assert.Equal(t, "0xabc", block.Hash)
}

func TestGetBlockViewNotFoundStaysTyped(t *testing.T) {
	ex := &fakeExplorer{blockErr: entity.NewSourceError(entity.KindNotFound, "etherscan", "block 99999999999 not found", nil)}
	svc := newService(t, ex, &fakeIndexer{}, ExplorerOptions{})

	_, err := svc.GetBlockView(context.Background(), "", 99999999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.NotErrorIs(t, err, entity.ErrSourceUnavailable)
}

func TestSwitchNetworkUnknownLeavesActive(t *testing.T) {
	svc := newService(t, &fakeExplorer{}, &fakeIndexer{}, ExplorerOptions{})

	_, err := svc.SwitchNetwork("polygon")
	assert.ErrorIs(t, err, entity.ErrUnknownNetwork)
	assert.Equal(t, "mainnet", svc.ActiveNetwork().ID)
	assert.Len(t, svc.ListNetworks(), 2)
}

func TestQueryIndexed(t *testing.T) {
	ix := &fakeIndexer{configured: true, result: entity.IndexedEntity{SourceID: "thegraph-uniswap-v3"}}
	svc := newService(t, &fakeExplorer{}, ix, ExplorerOptions{SwapLimit: 5})

	_, err := svc.QueryIndexed(context.Background(), entity.IndexedQuery{Kind: entity.IndexedRecentSwaps})
	require.NoError(t, err)
	require.Len(t, ix.queryLog(), 1)
	assert.Equal(t, 5, ix.queryLog()[0].First)

	_, err = svc.QueryIndexed(context.Background(), entity.IndexedQuery{Kind: entity.IndexedToken, Address: "nope"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.QueryIndexed(context.Background(), entity.IndexedQuery{Kind: entity.IndexedENSDomain, Name: "  "})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Len(t, ix.queryLog(), 1)
}

func TestQueryIndexedTransactionHash(t *testing.T) {
	ix := &fakeIndexer{configured: true}
	svc := newService(t, &fakeExplorer{}, ix, ExplorerOptions{})
	hash := "0x" + strings.Repeat("ab", 32)

	for _, bad := range []string{"", "0x1234", strings.Repeat("ab", 32), "0x" + strings.Repeat("zz", 32)} {
		_, err := svc.QueryIndexed(context.Background(), entity.IndexedQuery{Kind: entity.IndexedTransaction, Hash: bad})
		assert.ErrorIs(t, err, entity.ErrInvalidInput, bad)
	}
	assert.Empty(t, ix.queryLog())

	res, err := svc.QueryIndexed(context.Background(), entity.IndexedQuery{Kind: entity.IndexedTransaction, Hash: " " + hash + " "})
	require.NoError(t, err)
	assert.Equal(t, entity.IndexedTransaction, res.Kind)
	require.Len(t, ix.queryLog(), 1)
	assert.Equal(t, hash, ix.queryLog()[0].Hash)
}

func TestQueryIndexedPropagatesNotConfigured(t *testing.T) {
	ix := &fakeIndexer{err: entity.NewSourceError(entity.KindNotConfigured, "thegraph", "API key not supplied", nil)}
	svc := newService(t, &fakeExplorer{}, ix, ExplorerOptions{})

	_, err := svc.QueryIndexed(context.Background(), entity.IndexedQuery{Kind: entity.IndexedENSDomain, Name: "vitalik.eth"})
	assert.ErrorIs(t, err, entity.ErrNotConfigured)
	assert.NotErrorIs(t, err, entity.ErrNotFound)
}

func TestConfigStatus(t *testing.T) {
	ix := &fakeIndexer{configured: false, reason: "API key supplied but empty"}
	svc := newService(t, &fakeExplorer{}, ix, ExplorerOptions{ExplorerConfigured: true})

	status := svc.ConfigStatus()
	assert.True(t, status.ExplorerConfigured)
	assert.False(t, status.IndexerConfigured)
	assert.Equal(t, "API key supplied but empty", status.IndexerReason)
	assert.Equal(t, "mainnet", status.CurrentNetwork)
	assert.Equal(t, "sub-v3", status.Subgraphs["uniswapV3"])
	assert.False(t, status.Features["defiEnrichment"])
	assert.True(t, status.Features["walletLookup"])
}

func TestParseBlockNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{input: "68943", want: 68943},
		{input: " 42 ", want: 42},
		{input: "0x10d4f", want: 68943},
		{input: "0X10D4F", want: 68943},
		{input: "0x0a", want: 10},
		{input: "", wantErr: true},
		{input: "latest", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "0xzz", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBlockNumber(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, entity.ErrInvalidInput, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
