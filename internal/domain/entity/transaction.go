package entity

// NormalizedTransaction is a provider-independent transaction view.
// Classification is filled in by the aggregation layer before the transaction leaves the service.
type NormalizedTransaction struct {
	Hash           string              `json:"hash"`
	From           string              `json:"from"`
	To             string              `json:"to"`
	ValueWei       string              `json:"valueWei"`
	TimestampUnix  int64               `json:"timestampUnix"`
	BlockNumber    uint64              `json:"blockNumber"`
	GasUsed        uint64              `json:"gasUsed"`
	GasPrice       string              `json:"gasPrice"`
	IsError        bool                `json:"isError"`
	RawInput       string              `json:"rawInput"`
	Classification InputClassification `json:"classification"`
}
