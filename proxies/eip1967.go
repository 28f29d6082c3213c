package proxies

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// EIP1967ProxyResolver is an EIP-1967 proxy: transparent, UUPS or beacon.
type EIP1967ProxyResolver struct{}

func (EIP1967ProxyResolver) Name() string   { return "EIP1967Proxy" }
func (EIP1967ProxyResolver) String() string { return "EIP1967Proxy" }
func (EIP1967ProxyResolver) isProxyCandidate() {}

// Resolve reads the implementation slot. When it is empty the proxy may be a beacon proxy, in
// which case the beacon is asked for implementation() and then childImplementation().
func (EIP1967ProxyResolver) Resolve(ctx context.Context, p evm.Provider, address common.Address, _ ...ResolveOption) (common.Address, error) {
	impl, err := readAddress(ctx, p, address, EIP1967ImplementationSlot)
	if err != nil || impl != (common.Address{}) {
		return impl, err
	}

	beacon, err := readAddress(ctx, p, address, EIP1967BeaconSlot)
	if err != nil || beacon == (common.Address{}) {
		return common.Address{}, err
	}

	for _, sel := range []Selector{ImplementationSelector, ChildImplementationSelector} {
		impl, ok, err := callAddress(ctx, p, beacon, sel[:])
		if err != nil {
			return common.Address{}, err
		}
		if ok {
			return impl, nil
		}
	}

	return common.Address{}, nil
}
