package entity

// IndexedKind selects which indexed entity the query-language source is asked for.
type IndexedKind string

const (
	IndexedWalletSwaps IndexedKind = "wallet_swaps"
	IndexedRecentSwaps IndexedKind = "recent_swaps"
	IndexedToken       IndexedKind = "token"
	IndexedPool        IndexedKind = "pool"
	IndexedENSDomain   IndexedKind = "ens_domain"
	IndexedTransaction IndexedKind = "transaction"
)

// IndexedQuery carries the parameters for one indexed lookup.
// Hash is only read by IndexedTransaction.
type IndexedQuery struct {
	Kind    IndexedKind
	Address string
	Name    string
	Hash    string
	First   int
}

// IndexedEntity is the normalized result of an indexed lookup; only the field matching Kind is set.
type IndexedEntity struct {
	Kind        IndexedKind             `json:"kind"`
	SourceID    string                  `json:"sourceId"`
	Swaps       []Swap                  `json:"swaps,omitempty"`
	Token       *TokenInfo              `json:"token,omitempty"`
	Pool        *PoolInfo               `json:"pool,omitempty"`
	Domains     []ENSDomain             `json:"domains,omitempty"`
	Transaction *IndexedTransactionInfo `json:"transaction,omitempty"`
}

// TokenRef is the short token description embedded in swaps and pools.
type TokenRef struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// Swap is a single DEX swap as reported by the indexer.
// Amounts are kept as the indexer reports them.
type Swap struct {
	ID              string   `json:"id"`
	TimestampUnix   int64    `json:"timestampUnix"`
	Sender          string   `json:"sender"`
	Recipient       string   `json:"recipient"`
	Amount0         string   `json:"amount0"`
	Amount1         string   `json:"amount1"`
	AmountUSD       float64  `json:"amountUSD"`
	Token0          TokenRef `json:"token0"`
	Token1          TokenRef `json:"token1"`
	PoolID          string   `json:"poolId,omitempty"`
	TransactionHash string   `json:"transactionHash"`
	BlockNumber     uint64   `json:"blockNumber"`
}

// PoolSummary is a pool as listed under a token.
type PoolSummary struct {
	ID                  string  `json:"id"`
	FeeTier             int     `json:"feeTier"`
	Token0Symbol        string  `json:"token0Symbol"`
	Token1Symbol        string  `json:"token1Symbol"`
	TotalValueLockedUSD float64 `json:"totalValueLockedUSD"`
	VolumeUSD           float64 `json:"volumeUSD"`
}

// TokenInfo describes a token tracked by the DEX indexer.
type TokenInfo struct {
	Address             string        `json:"address"`
	Symbol              string        `json:"symbol"`
	Name                string        `json:"name"`
	Decimals            int           `json:"decimals"`
	TotalSupply         string        `json:"totalSupply"`
	VolumeUSD           float64       `json:"volumeUSD"`
	TotalValueLockedUSD float64       `json:"tvlUSD"`
	TxCount             uint64        `json:"txCount"`
	Pools               []PoolSummary `json:"pools"`
}

// PoolInfo describes a single liquidity pool.
type PoolInfo struct {
	ID                  string   `json:"id"`
	Token0              TokenRef `json:"token0"`
	Token1              TokenRef `json:"token1"`
	FeeTier             int      `json:"feeTier"`
	Liquidity           string   `json:"liquidity"`
	Token0Price         string   `json:"token0Price"`
	Token1Price         string   `json:"token1Price"`
	VolumeUSD           float64  `json:"volumeUSD"`
	TotalValueLockedUSD float64  `json:"tvlUSD"`
	TxCount             uint64   `json:"txCount"`
}

// ENSDomain is a name record from the ENS subgraph.
type ENSDomain struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LabelName       string `json:"labelName"`
	Owner           string `json:"owner"`
	ResolverAddress string `json:"resolverAddress"`
	CreatedAt       int64  `json:"createdAt"`
	ExpiryDate      int64  `json:"expiryDate"`
}

// LiquidityEvent is a mint or burn on a pool. Actor is the mint sender or the burn owner.
type LiquidityEvent struct {
	ID        string  `json:"id"`
	Actor     string  `json:"actor"`
	Amount0   string  `json:"amount0"`
	Amount1   string  `json:"amount1"`
	AmountUSD float64 `json:"amountUSD"`
}

// IndexedTransactionInfo is a transaction as the DEX indexer sees it, with the pool events it emitted.
type IndexedTransactionInfo struct {
	Hash          string           `json:"hash"`
	BlockNumber   uint64           `json:"blockNumber"`
	TimestampUnix int64            `json:"timestampUnix"`
	GasUsed       uint64           `json:"gasUsed"`
	GasPrice      string           `json:"gasPrice"`
	Swaps         []Swap           `json:"swaps"`
	Mints         []LiquidityEvent `json:"mints"`
	Burns         []LiquidityEvent `json:"burns"`
}

// IndexerHealth is the indexer's view of its own sync head.
type IndexerHealth struct {
	BlockNumber   uint64 `json:"latestBlock"`
	TimestampUnix int64  `json:"lastUpdated"`
}
