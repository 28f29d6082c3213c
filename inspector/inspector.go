// Package inspector ties bytecode disassembly and proxy resolution together: it fetches a
// contract's code, detects the proxy patterns in it, resolves each of them and optionally follows
// the resolved implementation to look for further proxies.
package inspector

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
	"github.com/smartcontractkit/evm-proxy-inspector/disasm"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/logger"
	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

const DefaultConcurrency = 8

// Report describes the proxies found at Address.
type Report struct {
	Address common.Address `json:"address" yaml:"address"`
	// CodeSize is the length of the deployed bytecode in bytes. Zero means no contract.
	CodeSize int           `json:"codeSize" yaml:"codeSize"`
	Proxies  []ProxyReport `json:"proxies" yaml:"proxies"`
	// Next is the report for the followed implementation, if any.
	Next *Report `json:"next,omitempty" yaml:"next,omitempty"`
}

// Implementation returns the first non-zero implementation resolved for the report, skipping
// diamond facet listings.
func (r *Report) Implementation() (common.Address, bool) {
	for _, p := range r.Proxies {
		if p.Facets {
			continue
		}
		for _, impl := range p.Implementations {
			if impl != (common.Address{}) {
				return impl, true
			}
		}
	}

	return common.Address{}, false
}

// ProxyReport is the resolution of a single proxy candidate.
type ProxyReport struct {
	Name      string                 `json:"name" yaml:"name"`
	Candidate proxies.ProxyCandidate `json:"-" yaml:"-"`
	// Implementations holds the resolved implementation, or the diamond's facets when Facets is
	// set. It is empty when the proxy resolved to the zero address.
	Implementations []common.Address `json:"implementations" yaml:"implementations"`
	Facets          bool             `json:"facets,omitempty" yaml:"facets,omitempty"`
}

// Inspector inspects contracts through a Provider.
type Inspector struct {
	provider    evm.Provider
	lggr        logger.Logger
	followDepth int
	facetLimit  int
	concurrency int
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger. The default discards everything.
func WithLogger(lggr logger.Logger) Option {
	return func(i *Inspector) {
		i.lggr = lggr
	}
}

// WithFollowDepth follows resolved implementations up to n hops.
func WithFollowDepth(n int) Option {
	return func(i *Inspector) {
		i.followDepth = max(n, 0)
	}
}

// WithFacetLimit caps the number of facets listed for diamonds inspected without a selector.
func WithFacetLimit(n int) Option {
	return func(i *Inspector) {
		i.facetLimit = n
	}
}

// WithConcurrency bounds the number of candidates resolved in parallel.
func WithConcurrency(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// New returns an Inspector reading through p.
func New(p evm.Provider, opts ...Option) *Inspector {
	i := &Inspector{
		provider:    p,
		lggr:        logger.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.lggr = i.lggr.Named("inspector")

	return i
}

// InspectOption configures a single Inspect call.
type InspectOption func(*inspectOptions)

type inspectOptions struct {
	resolve []proxies.ResolveOption
	diamond bool
}

// WithSelector resolves diamonds to the facet serving sel instead of listing their facets.
func WithSelector(sel proxies.Selector) InspectOption {
	return func(o *inspectOptions) {
		o.resolve = append(o.resolve, proxies.WithSelector(sel))
		o.diamond = true
	}
}

// Inspect fetches the code at address, resolves every proxy detected in it and follows the first
// resolved implementation as configured with WithFollowDepth. Following stops at the zero address,
// at an address already visited or when the depth is exhausted.
func (i *Inspector) Inspect(ctx context.Context, address common.Address, opts ...InspectOption) (*Report, error) {
	var o inspectOptions
	for _, opt := range opts {
		opt(&o)
	}

	root, err := i.inspectOne(ctx, address, o)
	if err != nil {
		return nil, err
	}

	visited := map[common.Address]struct{}{address: {}}
	for cur, hops := root, 0; hops < i.followDepth; hops++ {
		impl, ok := cur.Implementation()
		if !ok {
			break
		}
		if _, loop := visited[impl]; loop {
			i.lggr.Warnw("proxy loop detected, not following", "address", cur.Address, "implementation", impl)
			break
		}
		visited[impl] = struct{}{}

		i.lggr.Debugw("following implementation", "from", cur.Address, "to", impl, "hop", hops+1)
		next, err := i.inspectOne(ctx, impl, o)
		if err != nil {
			return nil, err
		}
		cur.Next = next
		cur = next
	}

	return root, nil
}

func (i *Inspector) inspectOne(ctx context.Context, address common.Address, o inspectOptions) (*Report, error) {
	code, err := i.provider.GetCode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get code of %s: %w", address, err)
	}

	report := &Report{Address: address, CodeSize: len(code), Proxies: []ProxyReport{}}
	if len(code) == 0 {
		i.lggr.Debugw("no code deployed", "address", address)
		return report, nil
	}

	prog := disasm.Disassemble(code)
	report.Proxies = make([]ProxyReport, len(prog.Proxies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx, candidate := range prog.Proxies {
		g.Go(func() error {
			pr, err := i.resolve(gctx, address, candidate, o)
			if err != nil {
				return fmt.Errorf("resolve %s at %s: %w", candidate.Name(), address, err)
			}
			report.Proxies[idx] = pr

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

func (i *Inspector) resolve(ctx context.Context, address common.Address, candidate proxies.ProxyCandidate, o inspectOptions) (ProxyReport, error) {
	pr := ProxyReport{Name: candidate.Name(), Candidate: candidate, Implementations: []common.Address{}}

	if d, ok := candidate.(proxies.DiamondProxyResolver); ok && !o.diamond {
		facets, err := d.Facets(ctx, i.provider, address, proxies.WithLimit(i.facetLimit))
		if err != nil {
			return ProxyReport{}, err
		}
		pr.Implementations = facets
		pr.Facets = true
		i.lggr.Debugw("listed diamond facets", "address", address, "facets", len(facets))

		return pr, nil
	}

	impl, err := candidate.Resolve(ctx, i.provider, address, o.resolve...)
	if err != nil {
		return ProxyReport{}, err
	}
	if impl != (common.Address{}) {
		pr.Implementations = append(pr.Implementations, impl)
	}
	i.lggr.Debugw("resolved proxy", "address", address, "proxy", candidate.Name(), "implementation", impl)

	return pr, nil
}
