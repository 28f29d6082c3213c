// Package config loads the proxy inspector configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/spf13/viper"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// LogConfig configures the runtime logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn or error
}

// RetryConfig configures the per-request retries of the RPC client. Zero values keep the client
// defaults.
type RetryConfig struct {
	Attempts uint          `mapstructure:"attempts" yaml:"attempts"`
	Delay    time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RPCConfig is the configuration of the chain the inspector reads from.
//
// WARNING: RPC URLs frequently embed API keys and should not be logged.
type RPCConfig struct {
	ChainSelector      uint64      `mapstructure:"chain_selector" yaml:"chain_selector"`
	HTTPURLs           []string    `mapstructure:"http_urls" yaml:"http_urls"`                       // Secret: may contain API keys
	WSURLs             []string    `mapstructure:"ws_urls" yaml:"ws_urls"`                           // Secret: may contain API keys
	PreferredURLScheme string      `mapstructure:"preferred_url_scheme" yaml:"preferred_url_scheme"` // http or ws
	BlockNumber        uint64      `mapstructure:"block_number" yaml:"block_number"`                 // 0 reads the latest block
	Retry              RetryConfig `mapstructure:"retry" yaml:"retry"`
}

// InspectorConfig configures how proxies are inspected.
type InspectorConfig struct {
	FollowDepth int `mapstructure:"follow_depth" yaml:"follow_depth"`
	FacetLimit  int `mapstructure:"facet_limit" yaml:"facet_limit"`
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// Config wraps the entire configuration of the proxy inspector.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	RPC       RPCConfig       `mapstructure:"rpc" yaml:"rpc"`
	Inspector InspectorConfig `mapstructure:"inspector" yaml:"inspector"`
}

// Load reads filePath when it exists and layers any set PROXY_INSPECTOR_* variables on top.
// A missing file is not an error; the config then comes from the environment alone.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return decode(v)
}

// LoadEnv builds the config from environment variables and defaults.
func LoadEnv() (*Config, error) {
	v := newViper()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	return decode(v)
}

// LoadFile builds the config from filePath only, ignoring the environment.
func LoadFile(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the config can be used to connect to a chain.
func (c *Config) Validate() error {
	var errs []error

	if c.RPC.ChainSelector == 0 {
		errs = append(errs, errors.New("rpc.chain_selector is required"))
	} else if _, ok := chainsel.ChainBySelector(c.RPC.ChainSelector); !ok {
		errs = append(errs, fmt.Errorf("rpc.chain_selector %d is not a known EVM chain", c.RPC.ChainSelector))
	}
	if len(c.RPC.HTTPURLs) == 0 && len(c.RPC.WSURLs) == 0 {
		errs = append(errs, errors.New("at least one of rpc.http_urls or rpc.ws_urls is required"))
	}
	if _, err := evm.URLSchemePreferenceFromString(c.RPC.PreferredURLScheme); err != nil {
		errs = append(errs, fmt.Errorf("rpc.preferred_url_scheme: %w", err))
	}
	if c.Inspector.FollowDepth < 0 {
		errs = append(errs, fmt.Errorf("inspector.follow_depth must not be negative, got %d", c.Inspector.FollowDepth))
	}
	if c.Inspector.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("inspector.concurrency must not be negative, got %d", c.Inspector.Concurrency))
	}

	return errors.Join(errs...)
}

// EVMRPCConfig converts the RPC section into the RPC client configuration. Every HTTP and WS URL
// becomes its own RPC, HTTP URLs first; the first one is the primary.
func (c RPCConfig) EVMRPCConfig() (evm.RPCConfig, error) {
	pref, err := evm.URLSchemePreferenceFromString(c.PreferredURLScheme)
	if err != nil {
		return evm.RPCConfig{}, err
	}

	rpcs := make([]evm.RPC, 0, len(c.HTTPURLs)+len(c.WSURLs))
	for i, url := range c.HTTPURLs {
		rpcs = append(rpcs, evm.RPC{Name: fmt.Sprintf("http-%d", i), HTTPURL: url, PreferredURLScheme: pref})
	}
	for i, url := range c.WSURLs {
		rpcs = append(rpcs, evm.RPC{Name: fmt.Sprintf("ws-%d", i), WSURL: url, PreferredURLScheme: pref})
	}

	return evm.RPCConfig{ChainSelector: c.ChainSelector, RPCs: rpcs}, nil
}

// EVMRetryConfig converts the retry section into the RPC client retry configuration.
func (c RetryConfig) EVMRetryConfig() evm.RetryConfig {
	return evm.RetryConfig{
		Attempts: c.Attempts,
		Delay:    c.Delay,
		Timeout:  c.Timeout,
	}
}

var (
	// envBindings lists, per config key, the variables that may set it in order of precedence.
	// ETH_RPC_URL is honoured so the tool picks up the endpoint other Ethereum tooling uses.
	envBindings = map[string][]string{
		"log.level":                {"PROXY_INSPECTOR_LOG_LEVEL"},
		"rpc.chain_selector":       {"PROXY_INSPECTOR_RPC_CHAIN_SELECTOR"},
		"rpc.http_urls":            {"PROXY_INSPECTOR_RPC_HTTP_URLS", "ETH_RPC_URL"},
		"rpc.ws_urls":              {"PROXY_INSPECTOR_RPC_WS_URLS"},
		"rpc.preferred_url_scheme": {"PROXY_INSPECTOR_RPC_PREFERRED_URL_SCHEME"},
		"rpc.block_number":         {"PROXY_INSPECTOR_RPC_BLOCK_NUMBER"},
		"rpc.retry.attempts":       {"PROXY_INSPECTOR_RPC_RETRY_ATTEMPTS"},
		"rpc.retry.delay":          {"PROXY_INSPECTOR_RPC_RETRY_DELAY"},
		"rpc.retry.timeout":        {"PROXY_INSPECTOR_RPC_RETRY_TIMEOUT"},
		"inspector.follow_depth":   {"PROXY_INSPECTOR_FOLLOW_DEPTH"},
		"inspector.facet_limit":    {"PROXY_INSPECTOR_FACET_LIMIT"},
		"inspector.concurrency":    {"PROXY_INSPECTOR_CONCURRENCY"},
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("inspector.follow_depth", 1)
	v.SetDefault("inspector.concurrency", 8)

	return v
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
