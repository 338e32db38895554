package client

import (
	"context"
	"math/big"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"chain_insight/internal/app/port"
	"chain_insight/internal/domain/entity"
	dto "chain_insight/internal/entity"
	"chain_insight/internal/infrastructure/httpclient"
	"chain_insight/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EtherscanSourceID identifies the block explorer in dataSources and errors.
const EtherscanSourceID = "etherscan"

// noTransactionsMessage is what Etherscan answers, with status "0", for an account without history.
const noTransactionsMessage = "No transactions found"

// EtherscanClient reads blocks and accounts from an Etherscan-compatible API.
// The network is chosen per call through the profile, so one client serves every network.
type EtherscanClient struct {
	transport   httpclient.JSONTransport
	txListLimit int
	logger      *zap.Logger
}

var _ port.ExplorerSource = (*EtherscanClient)(nil)

// NewEtherscanClient creates an EtherscanClient.
func NewEtherscanClient(transport httpclient.JSONTransport, txListLimit int, logger *zap.Logger) *EtherscanClient {
	if txListLimit <= 0 {
		txListLimit = 10
	}
	return &EtherscanClient{
		transport:   transport,
		txListLimit: txListLimit,
		logger:      logger.Named("EtherscanClient"),
	}
}

// SourceID implements port.ExplorerSource.
func (c *EtherscanClient) SourceID() string {
	return EtherscanSourceID
}

func (c *EtherscanClient) requestURL(profile entity.NetworkProfile, params url.Values) string {
	params.Set("apikey", profile.Credential)
	return profile.ProviderBaseURL + "?" + params.Encode()
}

// FetchBlock implements port.ExplorerSource.
func (c *EtherscanClient) FetchBlock(ctx context.Context, profile entity.NetworkProfile, number uint64) (entity.NormalizedBlock, error) {
	const op = "eth_getBlockByNumber"
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", op)
	params.Set("tag", hexutil.EncodeUint64(number))
	params.Set("boolean", "false")

	var resp dto.EtherscanProxyResponse
	if err := c.transport.GetJSON(ctx, c.requestURL(profile, params), &resp); err != nil {
		return entity.NormalizedBlock{}, sourceUnavailable(EtherscanSourceID, op, err)
	}
	raw, err := c.proxyResult(op, resp)
	if err != nil {
		return entity.NormalizedBlock{}, err
	}
	if raw == nil {
		c.logger.Debug("Block not found", zap.String("network", profile.ID), zap.Uint64("block", number))
		return entity.NormalizedBlock{}, notFound(EtherscanSourceID, "block "+strconv.FormatUint(number, 10)+" not found")
	}

	var block dto.EtherscanBlock
	if err := json.Unmarshal(raw, &block); err != nil {
		return entity.NormalizedBlock{}, sourceUnavailable(EtherscanSourceID, op, err)
	}
	return toNormalizedBlock(block, EtherscanSourceID, profile, c.logger), nil
}

// LatestBlockNumber implements port.ExplorerSource.
func (c *EtherscanClient) LatestBlockNumber(ctx context.Context, profile entity.NetworkProfile) (uint64, error) {
	const op = "eth_blockNumber"
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", op)

	var resp dto.EtherscanProxyResponse
	if err := c.transport.GetJSON(ctx, c.requestURL(profile, params), &resp); err != nil {
		return 0, sourceUnavailable(EtherscanSourceID, op, err)
	}
	raw, err := c.proxyResult(op, resp)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, upstreamRejected(EtherscanSourceID, op, "empty result")
	}

	var quantity string
	if err := json.Unmarshal(raw, &quantity); err != nil {
		return 0, sourceUnavailable(EtherscanSourceID, op, err)
	}
	n, err := hexutil.DecodeUint64(quantity)
	if err != nil {
		return 0, sourceUnavailable(EtherscanSourceID, op, err)
	}
	return n, nil
}

// proxyResult unwraps a proxy envelope. A nil result with a nil error means the upstream returned null.
// Etherscan reports key and rate-limit problems on proxy calls as a plain string result.
func (c *EtherscanClient) proxyResult(op string, resp dto.EtherscanProxyResponse) (jsoniter.RawMessage, error) {
	if resp.Error != nil {
		return nil, upstreamRejected(EtherscanSourceID, op, resp.Error.Message)
	}
	raw := jsoniter.RawMessage(strings.TrimSpace(string(resp.Result)))
	if len(raw) == 0 || string(raw) == "null" {
		if resp.Status == "0" {
			return nil, upstreamRejected(EtherscanSourceID, op, resp.Message)
		}
		return nil, nil
	}
	if resp.Status == "0" || (op != "eth_blockNumber" && raw[0] == '"') {
		var message string
		if err := json.Unmarshal(raw, &message); err != nil {
			message = string(raw)
		}
		if resp.Message != "" {
			message = resp.Message + ": " + message
		}
		return nil, upstreamRejected(EtherscanSourceID, op, message)
	}
	return raw, nil
}

// FetchWalletCore implements port.ExplorerSource. Balance and transaction list are independent reads
// and run concurrently; a failing balance call cancels the other one.
func (c *EtherscanClient) FetchWalletCore(ctx context.Context, profile entity.NetworkProfile, address string) (entity.WalletCore, error) {
	var (
		balance *big.Int
		txs     []entity.NormalizedTransaction
		notice  string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = c.fetchBalance(gctx, profile, address)
		return err
	})
	g.Go(func() error {
		var err error
		txs, notice, err = c.fetchTxList(gctx, profile, address)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.WalletCore{}, err
	}

	return entity.WalletCore{BalanceWei: balance, Transactions: txs, TxListNotice: notice}, nil
}

func (c *EtherscanClient) fetchBalance(ctx context.Context, profile entity.NetworkProfile, address string) (*big.Int, error) {
	const op = "balance"
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", op)
	params.Set("address", address)
	params.Set("tag", "latest")

	var resp dto.EtherscanResponse
	if err := c.transport.GetJSON(ctx, c.requestURL(profile, params), &resp); err != nil {
		return nil, sourceUnavailable(EtherscanSourceID, op, err)
	}

	var result string
	decodeErr := json.Unmarshal(resp.Result, &result)
	if resp.Status != "1" {
		message := resp.Message
		if decodeErr == nil && result != "" {
			message += ": " + result
		}
		return nil, upstreamRejected(EtherscanSourceID, op, message)
	}
	if decodeErr != nil {
		return nil, sourceUnavailable(EtherscanSourceID, op, decodeErr)
	}

	balance, err := utils.ParseBigInt(result)
	if err != nil {
		return nil, sourceUnavailable(EtherscanSourceID, op, err)
	}
	return balance, nil
}

// fetchTxList returns the most recent transactions, newest first. A non-success status degrades
// to an empty list and a notice instead of an error.
func (c *EtherscanClient) fetchTxList(ctx context.Context, profile entity.NetworkProfile, address string) ([]entity.NormalizedTransaction, string, error) {
	const op = "txlist"
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", op)
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(c.txListLimit))
	params.Set("sort", "desc")

	var resp dto.EtherscanResponse
	if err := c.transport.GetJSON(ctx, c.requestURL(profile, params), &resp); err != nil {
		return nil, "", sourceUnavailable(EtherscanSourceID, op, err)
	}

	if resp.Status != "1" {
		notice := resp.Message
		var detail string
		if err := json.Unmarshal(resp.Result, &detail); err == nil && detail != "" {
			notice += ": " + detail
		}
		if resp.Message == noTransactionsMessage {
			notice = ""
		} else {
			c.logger.Warn("Transaction list degraded to empty",
				zap.String("network", profile.ID),
				zap.String("address", address),
				zap.String("status", resp.Status),
				zap.String("notice", notice))
		}
		return []entity.NormalizedTransaction{}, notice, nil
	}

	var raw []dto.EtherscanTx
	if err := json.Unmarshal(resp.Result, &raw); err != nil {
		return nil, "", sourceUnavailable(EtherscanSourceID, op, err)
	}

	txs := make([]entity.NormalizedTransaction, 0, len(raw))
	for _, tx := range raw {
		txs = append(txs, toNormalizedTransaction(tx))
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].BlockNumber != txs[j].BlockNumber {
			return txs[i].BlockNumber > txs[j].BlockNumber
		}
		return txs[i].TimestampUnix > txs[j].TimestampUnix
	})

	c.logger.Debug("Fetched transaction list",
		zap.String("network", profile.ID),
		zap.String("address", address),
		zap.Int("count", len(txs)))
	return txs, "", nil
}
