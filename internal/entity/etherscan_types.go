package entity

import jsoniter "github.com/json-iterator/go"

// EtherscanResponse is the envelope of module=account calls.
// Status "1" means success; on failure Result usually holds an error string.
type EtherscanResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

// EtherscanProxyResponse is the JSON-RPC style envelope of module=proxy calls.
// Rate limits and key errors still come back in the Status/Message/Result-string shape.
type EtherscanProxyResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      int                 `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *EtherscanRPCError  `json:"error,omitempty"`
	Status  string              `json:"status,omitempty"`
	Message string              `json:"message,omitempty"`
}

// EtherscanRPCError is the error member of a proxy response.
type EtherscanRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// EtherscanBlock is eth_getBlockByNumber as proxied by Etherscan. Quantities are hex strings.
// Transactions holds either hashes or full objects depending on the boolean flag.
type EtherscanBlock struct {
	Number       string                `json:"number"`
	Hash         string                `json:"hash"`
	ParentHash   string                `json:"parentHash"`
	Timestamp    string                `json:"timestamp"`
	GasUsed      string                `json:"gasUsed"`
	GasLimit     string                `json:"gasLimit"`
	Miner        string                `json:"miner"`
	Size         string                `json:"size"`
	Transactions []jsoniter.RawMessage `json:"transactions"`
}

// EtherscanTx is one item of module=account&action=txlist. Every field is a decimal or hex string.
type EtherscanTx struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	Gas             string `json:"gas"`
	GasPrice        string `json:"gasPrice"`
	GasUsed         string `json:"gasUsed"`
	IsError         string `json:"isError"`
	TxReceiptStatus string `json:"txreceipt_status"`
	Input           string `json:"input"`
	ContractAddress string `json:"contractAddress"`
	MethodID        string `json:"methodId"`
	FunctionName    string `json:"functionName"`
}
