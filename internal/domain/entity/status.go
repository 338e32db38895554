package entity

import "time"

// NetworkSwitch is the result of a successful network switch.
type NetworkSwitch struct {
	Success     bool   `json:"success"`
	OldNetwork  string `json:"oldNetwork"`
	NewNetwork  string `json:"newNetwork"`
	NetworkName string `json:"networkName"`
}

// ConfigStatus describes which sources are usable, without exposing credentials.
type ConfigStatus struct {
	ExplorerConfigured bool              `json:"explorerConfigured"`
	IndexerConfigured  bool              `json:"indexerConfigured"`
	IndexerReason      string            `json:"indexerReason,omitempty"`
	Subgraphs          map[string]string `json:"subgraphs"`
	Networks           []NetworkSummary  `json:"networks"`
	CurrentNetwork     string            `json:"currentNetwork"`
	Features           map[string]bool   `json:"features"`
}

// Service status values used in health reports.
const (
	StatusConnected     = "connected"
	StatusError         = "error"
	StatusNotConfigured = "not_configured"
)

// ServiceHealth is one upstream's probe result.
type ServiceHealth struct {
	Status      string `json:"status"`
	LatestBlock uint64 `json:"latestBlock,omitempty"`
	LastUpdated int64  `json:"lastUpdated,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HealthReport is the body of /health.
type HealthReport struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Network   string                   `json:"network"`
	Services  map[string]ServiceHealth `json:"services"`
}
