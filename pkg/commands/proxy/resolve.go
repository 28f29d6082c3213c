package proxy

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
	"github.com/smartcontractkit/evm-proxy-inspector/config"
	"github.com/smartcontractkit/evm-proxy-inspector/inspector"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/flags"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/text"
	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

// inspectTimeout bounds a whole command, including every hop followed.
const inspectTimeout = 5 * time.Minute

var (
	resolveLong = text.LongDesc(`
		Fetches the code deployed at an address, detects the proxy patterns in it and resolves each
		of them to its implementation.

		Resolved implementations are inspected in turn up to --follow hops, which reveals proxies
		pointing at other proxies. Diamonds are listed by facet unless a function --selector is given.`)

	resolveExample = text.Examples(`
		# Resolve a proxy using the RPCs of the configuration file
		proxy-inspector resolve --config inspector.yml --address 0x5FbDB2315678afecb367f032d93F642f64180aa3

		# Resolve the facet of a diamond serving a selector, as JSON
		proxy-inspector resolve -a 0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE --selector 0x736eac0b -f json`)
)

// NewResolveCommand creates the "resolve" command.
func NewResolveCommand(cfg Config) *cobra.Command {
	var (
		selector string
		follow   int
	)

	cmd := &cobra.Command{
		Use:     "resolve",
		Short:   "Resolve the implementation of a proxy on chain",
		Long:    resolveLong,
		Example: resolveExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, cfg, selector, follow)
		},
	}

	flags.Address(cmd)
	flags.Config(cmd)
	flags.RPCURL(cmd)
	flags.Format(cmd)
	cmd.Flags().StringVarP(&selector, "selector", "s", "", "4-byte function selector resolved on diamonds, e.g. 0x736eac0b")
	cmd.Flags().IntVar(&follow, "follow", 0, "Number of implementation hops to follow (overrides the configuration)")

	return cmd
}

func runResolve(cmd *cobra.Command, cfg Config, selector string, follow int) error {
	address, err := flags.GetAddress(cmd)
	if err != nil {
		return err
	}
	format, err := flags.GetFormat(cmd)
	if err != nil {
		return err
	}

	var inspectOpts []inspector.InspectOption
	if selector != "" {
		sel, err := proxies.ParseSelector(selector)
		if err != nil {
			return fmt.Errorf("invalid selector: %w", err)
		}
		inspectOpts = append(inspectOpts, inspector.WithSelector(sel))
	}

	conf, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("follow") {
		conf.Inspector.FollowDepth = follow
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
	defer cancel()

	provider, closeFn, err := connect(ctx, cfg, conf)
	if err != nil {
		return err
	}
	defer closeFn()

	insp := inspector.New(provider,
		inspector.WithLogger(cfg.logger()),
		inspector.WithFollowDepth(conf.Inspector.FollowDepth),
		inspector.WithFacetLimit(conf.Inspector.FacetLimit),
		inspector.WithConcurrency(conf.Inspector.Concurrency),
	)

	report, err := insp.Inspect(ctx, address, inspectOpts...)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", address, err)
	}

	return renderReport(cmd.OutOrStdout(), format, report)
}

// loadConfig loads the configuration named by --config, applies the --rpc-url override and
// validates the result.
func loadConfig(cmd *cobra.Command, cfg Config) (*config.Config, error) {
	deps := cfg.deps()

	path := flags.MustString(cmd.Flags().GetString("config"))
	conf, err := deps.ConfigLoader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if urls := flags.MustStringSlice(cmd.Flags().GetStringSlice("rpc-url")); len(urls) > 0 {
		conf.RPC.HTTPURLs = urls
		conf.RPC.WSURLs = nil
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return conf, nil
}

func connect(ctx context.Context, cfg Config, conf *config.Config) (evm.Provider, func(), error) {
	provider, closeFn, err := cfg.deps().ProviderFactory(ctx, cfg.logger(), conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to chain %d: %w", conf.RPC.ChainSelector, err)
	}
	if closeFn == nil {
		closeFn = func() {}
	}

	return provider, closeFn, nil
}
