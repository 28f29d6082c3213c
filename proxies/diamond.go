package proxies

import (
	"context"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
	"github.com/smartcontractkit/evm-proxy-inspector/slots"
)

// Offsets of the DiamondStorage members from the diamond storage slot.
const (
	selectorToFacetOffset  = 0 // mapping(bytes4 => {address facet; uint96 position})
	facetToSelectorsOffset = 1 // mapping(address => {bytes4[] selectors; uint256 position})
	facetsOffset           = 2 // address[] facets
)

const selectorWidth = len(Selector{})

// DiamondProxyResolver is an EIP-2535 diamond, routing each function selector to its own facet.
//
// StorageSlot is the base of the DiamondStorage struct. The zero value uses DiamondStorageSlot.
type DiamondProxyResolver struct {
	StorageSlot common.Hash
}

func (DiamondProxyResolver) Name() string   { return "DiamondProxy" }
func (DiamondProxyResolver) String() string { return "DiamondProxy" }
func (DiamondProxyResolver) isProxyCandidate() {}

func (r DiamondProxyResolver) storageSlot() common.Hash {
	if r.StorageSlot == (common.Hash{}) {
		return DiamondStorageSlot
	}

	return r.StorageSlot
}

// Resolve returns the facet serving the selector given with WithSelector. The diamond's storage is
// read first; if no facet is registered there the diamond's facetAddress(bytes4) loupe function is
// asked instead.
func (r DiamondProxyResolver) Resolve(ctx context.Context, p evm.Provider, address common.Address, opts ...ResolveOption) (common.Address, error) {
	o := newResolveOptions(opts)
	if !o.hasSelector {
		return common.Address{}, ErrSelectorRequired
	}

	base := slots.AddSlotOffset(r.storageSlot(), selectorToFacetOffset)
	slot := slots.JoinSlot(slots.RightPad32(o.selector[:]), base[:])

	facet, err := readAddress(ctx, p, address, slot)
	if err != nil || facet != (common.Address{}) {
		return facet, err
	}

	data := slices.Concat(FacetAddressSelector[:], slots.RightPad32(o.selector[:]))
	facet, _, err = callAddress(ctx, p, address, data)

	return facet, err
}

// FacetsOption configures Facets.
type FacetsOption func(*facetsOptions)

type facetsOptions struct {
	limit int
}

// WithLimit returns at most n facets. n <= 0 returns all of them.
func WithLimit(n int) FacetsOption {
	return func(o *facetsOptions) {
		o.limit = n
	}
}

// Facets returns the facet addresses registered in the diamond's storage, in storage order.
func (r DiamondProxyResolver) Facets(ctx context.Context, p evm.Provider, address common.Address, opts ...FacetsOption) ([]common.Address, error) {
	var o facetsOptions
	for _, opt := range opts {
		opt(&o)
	}

	lengthSlot := slots.AddSlotOffset(r.storageSlot(), facetsOffset)
	elems, err := slots.ReadArrayLimit(ctx, p, address, lengthSlot, common.AddressLength, o.limit)
	if err != nil {
		return nil, fmt.Errorf("read facets of %s: %w", address, err)
	}

	facets := make([]common.Address, len(elems))
	for i, e := range elems {
		facets[i] = common.BytesToAddress(e)
	}

	return facets, nil
}

// FacetSelectors returns the selectors the diamond routes to facet.
func (r DiamondProxyResolver) FacetSelectors(ctx context.Context, p evm.Provider, address common.Address, facet common.Address) ([]Selector, error) {
	base := slots.AddSlotOffset(r.storageSlot(), facetToSelectorsOffset)
	lengthSlot := slots.JoinSlot(slots.AddressKey(facet), base[:])

	elems, err := slots.ReadArray(ctx, p, address, lengthSlot, selectorWidth)
	if err != nil {
		return nil, fmt.Errorf("read selectors of facet %s: %w", facet, err)
	}

	sels := make([]Selector, len(elems))
	for i, e := range elems {
		sels[i] = Selector(e)
	}

	return sels, nil
}

// Selectors returns every selector registered in the diamond, grouped by facet in storage order.
func (r DiamondProxyResolver) Selectors(ctx context.Context, p evm.Provider, address common.Address) ([]Selector, error) {
	facets, err := r.Facets(ctx, p, address)
	if err != nil {
		return nil, err
	}

	perFacet := make([][]Selector, len(facets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(slots.DefaultReadConcurrency)
	for i, facet := range facets {
		g.Go(func() error {
			sels, err := r.FacetSelectors(gctx, p, address, facet)
			if err != nil {
				return err
			}
			perFacet[i] = sels

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(perFacet...), nil
}
