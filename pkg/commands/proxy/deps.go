// Package proxy provides the CLI commands that disassemble bytecode and inspect proxies on chain.
package proxy

import (
	"context"
	"math/big"
	"os"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
	"github.com/smartcontractkit/evm-proxy-inspector/config"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/logger"
)

// ConfigLoaderFunc loads the configuration. An empty path reads the environment only.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// ProviderFactoryFunc connects to the chain described by cfg. The returned close function
// releases the connection and must be called once the provider is no longer used.
type ProviderFactoryFunc func(ctx context.Context, lggr logger.Logger, cfg *config.Config) (evm.Provider, func(), error)

// ReadFileFunc reads a file from disk.
type ReadFileFunc func(path string) ([]byte, error)

// defaultConfigLoader loads the configuration file, falling back to the environment.
func defaultConfigLoader(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadEnv()
	}

	return config.Load(path)
}

// defaultProviderFactory dials every configured RPC through a MultiClient.
func defaultProviderFactory(_ context.Context, lggr logger.Logger, cfg *config.Config) (evm.Provider, func(), error) {
	rpcCfg, err := cfg.RPC.EVMRPCConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := evm.NewMultiClient(lggr, rpcCfg, evm.WithRetryConfig(cfg.RPC.Retry.EVMRetryConfig()))
	if err != nil {
		return nil, nil, err
	}

	var opts []evm.ClientProviderOption
	if cfg.RPC.BlockNumber > 0 {
		opts = append(opts, evm.WithBlockNumber(new(big.Int).SetUint64(cfg.RPC.BlockNumber)))
	}

	return evm.NewClientProvider(client, opts...), client.Close, nil
}

// Deps holds the injectable dependencies for proxy commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration.
	// Default: config.Load, or config.LoadEnv without a path
	ConfigLoader ConfigLoaderFunc

	// ProviderFactory connects to the chain.
	// Default: a MultiClient over the configured RPCs
	ProviderFactory ProviderFactoryFunc

	// ReadFile reads bytecode files.
	// Default: os.ReadFile
	ReadFile ReadFileFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = defaultConfigLoader
	}
	if d.ProviderFactory == nil {
		d.ProviderFactory = defaultProviderFactory
	}
	if d.ReadFile == nil {
		d.ReadFile = os.ReadFile
	}
}

// Config holds the configuration for proxy commands.
type Config struct {
	Logger logger.Logger

	// Deps holds optional dependencies that can be overridden.
	// If nil, production defaults are used.
	Deps *Deps
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	if c.Deps == nil {
		c.Deps = &Deps{}
	}
	c.Deps.applyDefaults()

	return c.Deps
}

func (c *Config) logger() logger.Logger {
	if c.Logger == nil {
		return logger.Nop()
	}

	return c.Logger
}
