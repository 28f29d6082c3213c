// Package commands provides the CLI commands of the proxy inspector.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	commands := commands.New(lggr)
//	app.AddCommand(
//	    commands.Disasm(),
//	    commands.Resolve(),
//	    commands.Facets(),
//	)
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/proxy"
//
//	app.AddCommand(proxy.NewResolveCommand(proxy.Config{
//	    Logger: lggr,
//	    Deps:   &proxy.Deps{...},  // inject a fake provider for testing
//	}))
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/proxy"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
// The logger will be shared across all commands created by this factory.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// Disasm creates the command disassembling bytecode offline.
func (c *Commands) Disasm() *cobra.Command {
	return proxy.NewDisasmCommand(proxy.Config{Logger: c.lggr})
}

// Resolve creates the command resolving proxies on chain.
func (c *Commands) Resolve() *cobra.Command {
	return proxy.NewResolveCommand(proxy.Config{Logger: c.lggr})
}

// Facets creates the command listing the facets of a diamond.
func (c *Commands) Facets() *cobra.Command {
	return proxy.NewFacetsCommand(proxy.Config{Logger: c.lggr})
}

// All returns every command, ready to be added to a root command.
func (c *Commands) All() []*cobra.Command {
	return []*cobra.Command{c.Disasm(), c.Resolve(), c.Facets()}
}
