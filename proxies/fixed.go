package proxies

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// FixedProxyResolver is a proxy whose implementation address is hardcoded in its bytecode, such
// as EIP-1167 minimal proxies, Solady clones-with-immutable-args and Vyper forwarders.
type FixedProxyResolver struct {
	ResolvedAddress common.Address
}

func (FixedProxyResolver) Name() string   { return "FixedProxy" }
func (FixedProxyResolver) String() string { return "FixedProxy" }
func (FixedProxyResolver) isProxyCandidate() {}

// Resolve returns the embedded address without touching the provider.
func (r FixedProxyResolver) Resolve(context.Context, evm.Provider, common.Address, ...ResolveOption) (common.Address, error) {
	return r.ResolvedAddress, nil
}
