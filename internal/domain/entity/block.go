package entity

// NotAvailable is the placeholder for string fields the upstream did not return.
const NotAvailable = "N/A"

// NormalizedBlock is a provider-independent block header view.
// Every field is always present: missing numeric values are zero, missing strings are NotAvailable.
type NormalizedBlock struct {
	Number           uint64 `json:"number"`
	Hash             string `json:"hash"`
	ParentHash       string `json:"parentHash"`
	TimestampUnix    int64  `json:"timestampUnix"`
	GasUsed          uint64 `json:"gasUsed"`
	GasLimit         uint64 `json:"gasLimit"`
	Miner            string `json:"miner"`
	TransactionCount int    `json:"transactionCount"`
	SizeBytes        uint64 `json:"sizeBytes"`
	SourceID         string `json:"sourceId"`
	ExplorerURL      string `json:"explorerUrl"`
}
