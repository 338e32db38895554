package client

import (
	"context"
	"fmt"
	"strings"

	"chain_insight/internal/app/port"
	"chain_insight/internal/domain/entity"
	dto "chain_insight/internal/entity"
	"chain_insight/internal/infrastructure/configloader"
	"chain_insight/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

// Source identifiers reported by the indexer client.
const (
	TheGraphSourceID  = "thegraph"
	UniswapV3SourceID = "thegraph-uniswap-v3"
	ENSSourceID       = "thegraph-ens"
)

const maxSwapsPerQuery = 100

const swapFields = `
      id
      timestamp
      sender
      recipient
      amount0
      amount1
      amountUSD
      token0 { id symbol name decimals }
      token1 { id symbol name decimals }
      pool { id feeTier }
      transaction { id blockNumber timestamp }`

var (
	walletSwapsQuery = `query WalletSwaps($address: String!, $first: Int!) {
  swaps(
    first: $first
    where: { or: [{ sender: $address }, { recipient: $address }] }
    orderBy: timestamp
    orderDirection: desc
  ) {` + swapFields + `
  }
}`

	recentSwapsQuery = `query RecentSwaps($first: Int!) {
  swaps(first: $first, orderBy: timestamp, orderDirection: desc) {` + swapFields + `
  }
}`
)

const tokenQuery = `query Token($id: ID!) {
  token(id: $id) {
    id
    symbol
    name
    decimals
    totalSupply
    volumeUSD
    txCount
    totalValueLockedUSD
    whitelistPools(first: 10, orderBy: totalValueLockedUSD, orderDirection: desc) {
      id
      feeTier
      totalValueLockedUSD
      volumeUSD
      token0 { symbol }
      token1 { symbol }
    }
  }
}`

const poolQuery = `query Pool($id: ID!) {
  pool(id: $id) {
    id
    token0 { id symbol name decimals }
    token1 { id symbol name decimals }
    feeTier
    liquidity
    token0Price
    token1Price
    volumeUSD
    txCount
    totalValueLockedUSD
  }
}`

const ensDomainQuery = `query Domain($name: String!) {
  domains(where: { name: $name }) {
    id
    name
    labelName
    owner { id }
    resolver { id address }
    createdAt
    expiryDate
  }
}`

const transactionQuery = `query Transaction($id: ID!) {
  transaction(id: $id) {
    id
    blockNumber
    timestamp
    gasUsed
    gasPrice
    swaps {
      id
      timestamp
      sender
      recipient
      amount0
      amount1
      amountUSD
      token0 { id symbol name decimals }
      token1 { id symbol name decimals }
      pool { id feeTier }
    }
    mints { id sender amount0 amount1 amountUSD }
    burns { id owner amount0 amount1 amountUSD }
  }
}`

const metaQuery = `query { _meta { block { number timestamp } } }`

// TheGraphOptions configures a TheGraphClient. HasAPIKey distinguishes an absent key from an empty one.
type TheGraphOptions struct {
	BaseURL   string
	APIKey    string
	HasAPIKey bool
	Subgraphs map[string]string
}

// TheGraphClient queries subgraphs through The Graph gateway.
type TheGraphClient struct {
	transport httpclient.JSONTransport
	opts      TheGraphOptions
	logger    *zap.Logger
}

var _ port.IndexerSource = (*TheGraphClient)(nil)

// NewTheGraphClient creates a TheGraphClient.
func NewTheGraphClient(transport httpclient.JSONTransport, opts TheGraphOptions, logger *zap.Logger) *TheGraphClient {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &TheGraphClient{
		transport: transport,
		opts:      opts,
		logger:    logger.Named("TheGraphClient"),
	}
}

// SourceID implements port.IndexerSource.
func (c *TheGraphClient) SourceID() string {
	return TheGraphSourceID
}

// Configured implements port.IndexerSource.
func (c *TheGraphClient) Configured() (bool, string) {
	switch {
	case !c.opts.HasAPIKey:
		return false, "API key not supplied"
	case strings.TrimSpace(c.opts.APIKey) == "":
		return false, "API key supplied but empty"
	default:
		return true, ""
	}
}

// Subgraphs implements port.IndexerSource.
func (c *TheGraphClient) Subgraphs() map[string]string {
	out := make(map[string]string, len(c.opts.Subgraphs))
	for k, v := range c.opts.Subgraphs {
		out[k] = v
	}
	return out
}

// FetchIndexedEntity implements port.IndexerSource.
func (c *TheGraphClient) FetchIndexedEntity(ctx context.Context, q entity.IndexedQuery) (entity.IndexedEntity, error) {
	switch q.Kind {
	case entity.IndexedWalletSwaps:
		if q.Address == "" {
			return entity.IndexedEntity{}, invalidQuery("wallet_swaps needs an address")
		}
		var data dto.SwapsData
		vars := map[string]any{"address": strings.ToLower(q.Address), "first": clampFirst(q.First)}
		if err := c.query(ctx, configloader.SubgraphUniswapV3, UniswapV3SourceID, walletSwapsQuery, vars, &data); err != nil {
			return entity.IndexedEntity{}, err
		}
		return entity.IndexedEntity{Kind: q.Kind, SourceID: UniswapV3SourceID, Swaps: toSwaps(data.Swaps)}, nil

	case entity.IndexedRecentSwaps:
		var data dto.SwapsData
		vars := map[string]any{"first": clampFirst(q.First)}
		if err := c.query(ctx, configloader.SubgraphUniswapV3, UniswapV3SourceID, recentSwapsQuery, vars, &data); err != nil {
			return entity.IndexedEntity{}, err
		}
		return entity.IndexedEntity{Kind: q.Kind, SourceID: UniswapV3SourceID, Swaps: toSwaps(data.Swaps)}, nil

	case entity.IndexedToken:
		if q.Address == "" {
			return entity.IndexedEntity{}, invalidQuery("token needs an address")
		}
		var data dto.TokenData
		vars := map[string]any{"id": strings.ToLower(q.Address)}
		if err := c.query(ctx, configloader.SubgraphUniswapV3, UniswapV3SourceID, tokenQuery, vars, &data); err != nil {
			return entity.IndexedEntity{}, err
		}
		if data.Token == nil {
			return entity.IndexedEntity{}, notFound(UniswapV3SourceID, fmt.Sprintf("token %s not indexed", q.Address))
		}
		token := toTokenInfo(q.Address, *data.Token)
		return entity.IndexedEntity{Kind: q.Kind, SourceID: UniswapV3SourceID, Token: &token}, nil

	case entity.IndexedPool:
		if q.Address == "" {
			return entity.IndexedEntity{}, invalidQuery("pool needs an address")
		}
		var data dto.PoolData
		vars := map[string]any{"id": strings.ToLower(q.Address)}
		if err := c.query(ctx, configloader.SubgraphUniswapV3, UniswapV3SourceID, poolQuery, vars, &data); err != nil {
			return entity.IndexedEntity{}, err
		}
		if data.Pool == nil {
			return entity.IndexedEntity{}, notFound(UniswapV3SourceID, fmt.Sprintf("pool %s not indexed", q.Address))
		}
		pool := toPoolInfo(*data.Pool)
		return entity.IndexedEntity{Kind: q.Kind, SourceID: UniswapV3SourceID, Pool: &pool}, nil

	case entity.IndexedENSDomain:
		if q.Name == "" {
			return entity.IndexedEntity{}, invalidQuery("ens_domain needs a name")
		}
		var data dto.DomainsData
		vars := map[string]any{"name": strings.ToLower(q.Name)}
		if err := c.query(ctx, configloader.SubgraphENS, ENSSourceID, ensDomainQuery, vars, &data); err != nil {
			return entity.IndexedEntity{}, err
		}
		if len(data.Domains) == 0 {
			return entity.IndexedEntity{}, notFound(ENSSourceID, fmt.Sprintf("domain %s not registered", q.Name))
		}
		return entity.IndexedEntity{Kind: q.Kind, SourceID: ENSSourceID, Domains: toENSDomains(data.Domains)}, nil

	case entity.IndexedTransaction:
		if q.Hash == "" {
			return entity.IndexedEntity{}, invalidQuery("transaction needs a hash")
		}
		var data dto.TransactionData
		vars := map[string]any{"id": strings.ToLower(q.Hash)}
		if err := c.query(ctx, configloader.SubgraphUniswapV3, UniswapV3SourceID, transactionQuery, vars, &data); err != nil {
			return entity.IndexedEntity{}, err
		}
		if data.Transaction == nil {
			return entity.IndexedEntity{}, notFound(UniswapV3SourceID, fmt.Sprintf("transaction %s not indexed", q.Hash))
		}
		tx := toIndexedTransaction(*data.Transaction)
		return entity.IndexedEntity{Kind: q.Kind, SourceID: UniswapV3SourceID, Transaction: &tx}, nil

	default:
		return entity.IndexedEntity{}, invalidQuery(fmt.Sprintf("unsupported indexed kind %q", q.Kind))
	}
}

// HealthCheck implements port.IndexerSource using the Uniswap V3 subgraph's _meta block.
func (c *TheGraphClient) HealthCheck(ctx context.Context) (entity.IndexerHealth, error) {
	var data dto.MetaData
	if err := c.query(ctx, configloader.SubgraphUniswapV3, UniswapV3SourceID, metaQuery, nil, &data); err != nil {
		return entity.IndexerHealth{}, err
	}
	return entity.IndexerHealth{
		BlockNumber:   data.Meta.Block.Number,
		TimestampUnix: data.Meta.Block.Timestamp,
	}, nil
}

// query posts one GraphQL document. Without a usable key it returns NotConfigured and sends nothing.
func (c *TheGraphClient) query(ctx context.Context, subgraphKey, sourceID, document string, vars map[string]any, out any) error {
	if ok, reason := c.Configured(); !ok {
		return entity.NewSourceError(entity.KindNotConfigured, sourceID, reason, nil)
	}
	subgraphID, ok := c.opts.Subgraphs[subgraphKey]
	if !ok || subgraphID == "" {
		return entity.NewSourceError(entity.KindNotConfigured, sourceID, "no subgraph id for "+subgraphKey, nil)
	}
	endpoint := fmt.Sprintf("%s/%s/subgraphs/id/%s", c.opts.BaseURL, c.opts.APIKey, subgraphID)

	var resp dto.GraphQLResponse
	if err := c.transport.PostJSON(ctx, endpoint, dto.GraphQLRequest{Query: document, Variables: vars}, &resp); err != nil {
		return sourceUnavailable(sourceID, subgraphKey, err)
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Warn("Subgraph returned errors",
			zap.String("subgraph", subgraphKey),
			zap.Strings("errors", messages))
		return upstreamRejected(sourceID, subgraphKey, strings.Join(messages, "; "))
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return upstreamRejected(sourceID, subgraphKey, "response has no data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return sourceUnavailable(sourceID, subgraphKey, err)
	}
	return nil
}

func clampFirst(first int) int {
	switch {
	case first <= 0:
		return 10
	case first > maxSwapsPerQuery:
		return maxSwapsPerQuery
	default:
		return first
	}
}

func invalidQuery(message string) error {
	return entity.NewSourceError(entity.KindInvalidInput, TheGraphSourceID, message, nil)
}
