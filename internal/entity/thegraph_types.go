package entity

import jsoniter "github.com/json-iterator/go"

// GraphQLRequest is the POST body sent to a subgraph.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError is one entry of the errors member.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLResponse keeps Data raw so each query can decode its own shape.
type GraphQLResponse struct {
	Data   jsoniter.RawMessage `json:"data"`
	Errors []GraphQLError      `json:"errors,omitempty"`
}

// GraphToken is a token reference. BigInt and BigDecimal values arrive as strings.
type GraphToken struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals string `json:"decimals"`
}

// GraphTransaction is the transaction a swap belongs to.
type GraphTransaction struct {
	ID          string `json:"id"`
	BlockNumber string `json:"blockNumber"`
	Timestamp   string `json:"timestamp"`
	GasUsed     string `json:"gasUsed"`
	GasPrice    string `json:"gasPrice"`
}

// GraphPoolRef is the pool reference embedded in a swap.
type GraphPoolRef struct {
	ID      string `json:"id"`
	FeeTier string `json:"feeTier"`
}

// GraphSwap is a Uniswap V3 swap.
type GraphSwap struct {
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Sender      string            `json:"sender"`
	Recipient   string            `json:"recipient"`
	Amount0     string            `json:"amount0"`
	Amount1     string            `json:"amount1"`
	AmountUSD   string            `json:"amountUSD"`
	Token0      *GraphToken       `json:"token0"`
	Token1      *GraphToken       `json:"token1"`
	Pool        *GraphPoolRef     `json:"pool"`
	Transaction *GraphTransaction `json:"transaction"`
}

// GraphPool is a Uniswap V3 pool.
type GraphPool struct {
	ID                  string      `json:"id"`
	Token0              *GraphToken `json:"token0"`
	Token1              *GraphToken `json:"token1"`
	FeeTier             string      `json:"feeTier"`
	Liquidity           string      `json:"liquidity"`
	Token0Price         string      `json:"token0Price"`
	Token1Price         string      `json:"token1Price"`
	VolumeUSD           string      `json:"volumeUSD"`
	TxCount             string      `json:"txCount"`
	TotalValueLockedUSD string      `json:"totalValueLockedUSD"`
}

// GraphTokenDetail is a Uniswap V3 token with its top pools.
type GraphTokenDetail struct {
	ID                  string      `json:"id"`
	Symbol              string      `json:"symbol"`
	Name                string      `json:"name"`
	Decimals            string      `json:"decimals"`
	TotalSupply         string      `json:"totalSupply"`
	VolumeUSD           string      `json:"volumeUSD"`
	TxCount             string      `json:"txCount"`
	TotalValueLockedUSD string      `json:"totalValueLockedUSD"`
	WhitelistPools      []GraphPool `json:"whitelistPools"`
}

// GraphMint is a liquidity mint inside a transaction.
type GraphMint struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	AmountUSD string `json:"amountUSD"`
}

// GraphBurn is a liquidity burn inside a transaction.
type GraphBurn struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	AmountUSD string `json:"amountUSD"`
}

// GraphTxDetail is a Uniswap V3 transaction with the pool events it emitted.
type GraphTxDetail struct {
	GraphTransaction
	Swaps []GraphSwap `json:"swaps"`
	Mints []GraphMint `json:"mints"`
	Burns []GraphBurn `json:"burns"`
}

// GraphAccount is an ENS account reference.
type GraphAccount struct {
	ID string `json:"id"`
}

// GraphResolver is an ENS resolver reference.
type GraphResolver struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// GraphDomain is an ENS domain.
type GraphDomain struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	LabelName  string         `json:"labelName"`
	Owner      *GraphAccount  `json:"owner"`
	Resolver   *GraphResolver `json:"resolver"`
	CreatedAt  string         `json:"createdAt"`
	ExpiryDate string         `json:"expiryDate"`
}

// SwapsData is the data member of a swaps query.
type SwapsData struct {
	Swaps []GraphSwap `json:"swaps"`
}

// TokenData is the data member of a token query. Token is nil when the id is unknown.
type TokenData struct {
	Token *GraphTokenDetail `json:"token"`
}

// PoolData is the data member of a pool query. Pool is nil when the id is unknown.
type PoolData struct {
	Pool *GraphPool `json:"pool"`
}

// TransactionData is the data member of a transaction query. Transaction is nil when the hash is unknown.
type TransactionData struct {
	Transaction *GraphTxDetail `json:"transaction"`
}

// DomainsData is the data member of an ENS domains query.
type DomainsData struct {
	Domains []GraphDomain `json:"domains"`
}

// MetaData is the data member of a _meta query.
type MetaData struct {
	Meta struct {
		Block struct {
			Number    uint64 `json:"number"`
			Timestamp int64  `json:"timestamp"`
		} `json:"block"`
	} `json:"_meta"`
}
