package proxy

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/evm-proxy-inspector/disasm"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/flags"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/text"
	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

var (
	facetsLong = text.LongDesc(`
		Lists the facets registered in the storage of an EIP-2535 diamond, optionally with the
		function selectors each facet serves.`)

	facetsExample = text.Examples(`
		# List the first ten facets of a diamond
		proxy-inspector facets --address 0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE --limit 10

		# List every facet with its selectors
		proxy-inspector facets -a 0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE --selectors -f yaml`)
)

// NewFacetsCommand creates the "facets" command.
func NewFacetsCommand(cfg Config) *cobra.Command {
	var (
		limit     int
		selectors bool
	)

	cmd := &cobra.Command{
		Use:     "facets",
		Short:   "List the facets of a diamond proxy",
		Long:    facetsLong,
		Example: facetsExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFacets(cmd, cfg, limit, selectors)
		},
	}

	flags.Address(cmd)
	flags.Config(cmd)
	flags.RPCURL(cmd)
	flags.Format(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of facets to list, 0 lists all of them")
	cmd.Flags().BoolVar(&selectors, "selectors", false, "Also list the selectors served by each facet")

	return cmd
}

func runFacets(cmd *cobra.Command, cfg Config, limit int, withSelectors bool) error {
	address, err := flags.GetAddress(cmd)
	if err != nil {
		return err
	}
	format, err := flags.GetFormat(cmd)
	if err != nil {
		return err
	}

	conf, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
	defer cancel()

	provider, closeFn, err := connect(ctx, cfg, conf)
	if err != nil {
		return err
	}
	defer closeFn()

	code, err := provider.GetCode(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to get code of %s: %w", address, err)
	}

	diamond, ok := findDiamond(disasm.Disassemble(code))
	if !ok {
		return fmt.Errorf("no diamond proxy detected at %s", address)
	}

	facets, err := diamond.Facets(ctx, provider, address, proxies.WithLimit(limit))
	if err != nil {
		return err
	}
	cfg.logger().Debugw("listed diamond facets", "address", address, "facets", len(facets))

	views := make([]facetView, len(facets))
	for i, facet := range facets {
		views[i].Facet = facet
		if !withSelectors {
			continue
		}

		sels, err := diamond.FacetSelectors(ctx, provider, address, facet)
		if err != nil {
			return err
		}
		views[i].Selectors = make([]string, len(sels))
		for j, sel := range sels {
			views[i].Selectors[j] = sel.Hex()
		}
	}

	return renderFacets(cmd.OutOrStdout(), format, views)
}

func findDiamond(prog *disasm.Program) (proxies.DiamondProxyResolver, bool) {
	for _, c := range prog.Proxies {
		if d, ok := c.(proxies.DiamondProxyResolver); ok {
			return d, true
		}
	}

	return proxies.DiamondProxyResolver{}, false
}
