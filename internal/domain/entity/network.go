package entity

import "strconv"

// NetworkProfile describes one supported chain environment.
// Profiles are immutable once the registry is built; the active one is swapped as a whole.
type NetworkProfile struct {
	ID              string `json:"id" yaml:"id"`
	DisplayName     string `json:"name" yaml:"name"`
	ChainID         int64  `json:"chainId" yaml:"chainId"`
	ProviderBaseURL string `json:"-" yaml:"providerBaseURL"` // Block explorer API endpoint, e.g. https://api.etherscan.io/api
	ExplorerBaseURL string `json:"explorerUrl" yaml:"explorerBaseURL"`
	Credential      string `json:"-" yaml:"-"`
}

// NetworkSummary is the display-safe subset of a NetworkProfile.
type NetworkSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ChainID int64  `json:"chainId"`
}

// Summary returns the display-safe view of the profile.
func (p NetworkProfile) Summary() NetworkSummary {
	return NetworkSummary{ID: p.ID, Name: p.DisplayName, ChainID: p.ChainID}
}

// BlockURL returns the public explorer page for a block.
func (p NetworkProfile) BlockURL(number uint64) string {
	return p.ExplorerBaseURL + "/block/" + strconv.FormatUint(number, 10)
}

// AddressURL returns the public explorer page for an account.
func (p NetworkProfile) AddressURL(address string) string {
	return p.ExplorerBaseURL + "/address/" + address
}
