package configloader

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"chain_insight/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Source identifiers used for credential lookup and in dataSources.
const (
	ExplorerSourceID = "etherscan"
	IndexerSourceID  = "thegraph"
)

// Environment variables that override the file.
const (
	EnvPort           = "PORT"
	EnvExplorerAPIKey = "ETHERSCAN_API_KEY"
	EnvIndexerAPIKey  = "GRAPH_API_KEY"
	EnvLogLevel       = "LOG_LEVEL"
)

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json or console
}

// NetworkConfig describes one supported chain environment.
type NetworkConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	ChainID     int64  `yaml:"chainId"`
	APIURL      string `yaml:"apiURL"`
	ExplorerURL string `yaml:"explorerURL"`
}

// ExplorerConfig holds block explorer (Etherscan-compatible) client settings.
type ExplorerConfig struct {
	APIKey               *string `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int     `yaml:"rateLimitBurst"`
	TxListLimit          int     `yaml:"txListLimit"`
}

// IndexerConfig holds The Graph gateway settings.
type IndexerConfig struct {
	BaseURL              string            `yaml:"baseURL"`
	APIKey               *string           `yaml:"apiKey"`
	RequestTimeoutMillis int64             `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64           `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int               `yaml:"rateLimitBurst"`
	SwapLimit            int               `yaml:"swapLimit"`
	Subgraphs            map[string]string `yaml:"subgraphs"`
}

// HealthConfig holds /health probe settings.
type HealthConfig struct {
	CacheTTLSeconds    int   `yaml:"cacheTTLSeconds"`
	ProbeTimeoutMillis int64 `yaml:"probeTimeoutMillis"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server         ServerConfig    `yaml:"server"`
	Logging        LoggingConfig   `yaml:"logging"`
	Networks       []NetworkConfig `yaml:"networks"`
	DefaultNetwork string          `yaml:"defaultNetwork"`
	Explorer       ExplorerConfig  `yaml:"explorer"`
	Indexer        IndexerConfig   `yaml:"indexer"`
	Health         HealthConfig    `yaml:"health"`
}

// Subgraph keys understood by the indexer client.
const (
	SubgraphUniswapV3 = "uniswapV3"
	SubgraphUniswapV2 = "uniswapV2"
	SubgraphCompound  = "compound"
	SubgraphAave      = "aave"
	SubgraphENS       = "ens"
	SubgraphEthereum  = "ethereum_messari"
)

var defaultSubgraphs = map[string]string{
	SubgraphUniswapV3: "5zvR82QoaXYFyDEKLZ9t6v9adgnptxYpKpSbxtgVENFV",
	SubgraphUniswapV2: "DiYPVdygkfjDWhbxGSqAQxwBKmfKnkWQojqeM2rkLb3G",
	SubgraphCompound:  "A3Np3RQbaBA6oKJgiwDJeo5T3zrYfGHPWFYayMwtNDum",
	SubgraphAave:      "FUbEPQw1oMghy39fwWBFY5fE6MXPXZQtjncQy2cXdrNS",
	SubgraphENS:       "ELUcwgpm14LKPLrBRuVvPvNKHQ9HvwmtKgKSH6123cr7",
	SubgraphEthereum:  "EYCKATKGBKLWvSfwvBjzfCBmGwYNdVkduYXVivCsLRFG",
}

var defaultNetworks = []NetworkConfig{
	{
		ID:          "mainnet",
		Name:        "Ethereum Mainnet",
		ChainID:     1,
		APIURL:      "https://api.etherscan.io/api",
		ExplorerURL: "https://etherscan.io",
	},
	{
		ID:          "sepolia",
		Name:        "Sepolia Testnet",
		ChainID:     11155111,
		APIURL:      "https://api-sepolia.etherscan.io/api",
		ExplorerURL: "https://sepolia.etherscan.io",
	},
}

// Load reads the YAML file at path, applies environment overrides and defaults, and validates the result.
// A missing file is not an error: the built-in defaults are used instead.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logrus.Warnf("Config file %s not found, using built-in defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		c.Server.Port = v
		logrus.Infof("Server.Port overridden by %s", EnvPort)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	// Present-but-empty keys are kept so they can be told apart from absent ones.
	if v, ok := os.LookupEnv(EnvExplorerAPIKey); ok {
		c.Explorer.APIKey = &v
		logrus.Infof("Explorer.APIKey taken from %s", EnvExplorerAPIKey)
	}
	if v, ok := os.LookupEnv(EnvIndexerAPIKey); ok {
		c.Indexer.APIKey = &v
		logrus.Infof("Indexer.APIKey taken from %s", EnvIndexerAPIKey)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":3001"
		logrus.Infof("Server.Port not set, defaulting to %s", c.Server.Port)
	}
	if !strings.Contains(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "json"
	}

	if len(c.Networks) == 0 {
		c.Networks = append([]NetworkConfig(nil), defaultNetworks...)
		logrus.Infof("Networks not set, defaulting to %d built-in networks", len(c.Networks))
	}
	if c.DefaultNetwork == "" {
		c.DefaultNetwork = c.Networks[0].ID
		logrus.Infof("DefaultNetwork not set, defaulting to %s", c.DefaultNetwork)
	}

	if c.Explorer.RequestTimeoutMillis <= 0 {
		c.Explorer.RequestTimeoutMillis = 10000
		logrus.Infof("Explorer.RequestTimeoutMillis not set, defaulting to %d ms", c.Explorer.RequestTimeoutMillis)
	}
	if c.Explorer.RateLimitPerSecond <= 0 {
		c.Explorer.RateLimitPerSecond = 5
	}
	if c.Explorer.RateLimitBurst <= 0 {
		c.Explorer.RateLimitBurst = 5
	}
	if c.Explorer.TxListLimit <= 0 {
		c.Explorer.TxListLimit = 10
	}

	if c.Indexer.BaseURL == "" {
		c.Indexer.BaseURL = "https://gateway-arbitrum.network.thegraph.com/api"
		logrus.Infof("Indexer.BaseURL not set, defaulting to %s", c.Indexer.BaseURL)
	}
	c.Indexer.BaseURL = strings.TrimRight(c.Indexer.BaseURL, "/")
	if c.Indexer.RequestTimeoutMillis <= 0 {
		c.Indexer.RequestTimeoutMillis = 8000
		logrus.Infof("Indexer.RequestTimeoutMillis not set, defaulting to %d ms", c.Indexer.RequestTimeoutMillis)
	}
	if c.Indexer.RateLimitPerSecond <= 0 {
		c.Indexer.RateLimitPerSecond = 10
	}
	if c.Indexer.RateLimitBurst <= 0 {
		c.Indexer.RateLimitBurst = 10
	}
	if c.Indexer.SwapLimit <= 0 {
		c.Indexer.SwapLimit = 10
	}
	if c.Indexer.Subgraphs == nil {
		c.Indexer.Subgraphs = make(map[string]string, len(defaultSubgraphs))
	}
	for key, id := range defaultSubgraphs {
		if _, ok := c.Indexer.Subgraphs[key]; !ok {
			c.Indexer.Subgraphs[key] = id
		}
	}

	if c.Health.CacheTTLSeconds <= 0 {
		c.Health.CacheTTLSeconds = 15
	}
	if c.Health.ProbeTimeoutMillis <= 0 {
		c.Health.ProbeTimeoutMillis = 5000
	}
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Networks))
	for i, n := range c.Networks {
		if n.ID == "" {
			return fmt.Errorf("networks[%d]: id is required", i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("networks[%d]: duplicate network id %q", i, n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.APIURL == "" {
			return fmt.Errorf("network %q: apiURL is required", n.ID)
		}
		if n.Name == "" {
			logrus.Warnf("Network %q has no name, the id will be shown instead", n.ID)
		}
	}
	if _, ok := seen[c.DefaultNetwork]; !ok {
		return fmt.Errorf("defaultNetwork %q is not one of the configured networks", c.DefaultNetwork)
	}
	return nil
}

// CredentialFor returns the API key for a source. ok is false when no key was supplied at all;
// a key that was supplied but left empty is returned as ("", true).
func (c *Config) CredentialFor(sourceID string) (string, bool) {
	var key *string
	switch sourceID {
	case ExplorerSourceID:
		key = c.Explorer.APIKey
	case IndexerSourceID:
		key = c.Indexer.APIKey
	}
	if key == nil {
		return "", false
	}
	return *key, true
}

// NetworkProfiles converts the configured networks into registry profiles, in file order.
func (c *Config) NetworkProfiles() []entity.NetworkProfile {
	credential, _ := c.CredentialFor(ExplorerSourceID)
	profiles := make([]entity.NetworkProfile, 0, len(c.Networks))
	for _, n := range c.Networks {
		name := n.Name
		if name == "" {
			name = n.ID
		}
		profiles = append(profiles, entity.NetworkProfile{
			ID:              n.ID,
			DisplayName:     name,
			ChainID:         n.ChainID,
			ProviderBaseURL: strings.TrimRight(n.APIURL, "/"),
			ExplorerBaseURL: strings.TrimRight(n.ExplorerURL, "/"),
			Credential:      credential,
		})
	}
	return profiles
}
