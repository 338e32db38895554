package entity

import "math/big"

// WalletCore is what the block explorer alone can tell about an account.
// TxListNotice is set when the transaction list degraded to empty because the upstream reported a failure.
type WalletCore struct {
	BalanceWei   *big.Int
	Transactions []NormalizedTransaction
	TxListNotice string
}

// DefiActivity is the optional enrichment attached to a wallet view.
type DefiActivity struct {
	RecentSwaps    []Swap  `json:"recentSwaps"`
	SwapCount      int     `json:"swapCount"`
	TotalVolumeUSD float64 `json:"totalVolumeUSD"`
}

// SourceDiagnostic records why an optional source did not contribute.
type SourceDiagnostic struct {
	Source string    `json:"source"`
	Status string    `json:"status"`
	Kind   ErrorKind `json:"kind,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// WalletView merges the explorer core with optional indexer enrichment.
type WalletView struct {
	Address          string                  `json:"address"`
	Network          string                  `json:"network"`
	BalanceWei       string                  `json:"balanceWei"`
	BalanceFormatted string                  `json:"balanceFormatted"`
	Transactions     []NormalizedTransaction `json:"transactions"`
	Enrichment       *DefiActivity           `json:"enrichment"`
	DataSources      []string                `json:"dataSources"`
	ExplorerURL      string                  `json:"explorerUrl"`
	Diagnostics      []SourceDiagnostic      `json:"diagnostics,omitempty"`
}
