package proxies

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// SequenceWalletProxyResolver is the gas-optimized minimal proxy used by Sequence wallets, which
// keeps its implementation in storage instead of bytecode.
type SequenceWalletProxyResolver struct{}

func (SequenceWalletProxyResolver) Name() string   { return "SequenceWalletProxy" }
func (SequenceWalletProxyResolver) String() string { return "SequenceWalletProxy" }
func (SequenceWalletProxyResolver) isProxyCandidate() {}

// Resolve reads the implementation from slot 0.
//
// The proxy bytecode itself loads sload(address()), the slot numbered by the proxy's own
// address. Resolve reads slot 0 instead and ignores that slot.
func (SequenceWalletProxyResolver) Resolve(ctx context.Context, p evm.Provider, address common.Address, _ ...ResolveOption) (common.Address, error) {
	return readAddress(ctx, p, address, common.Hash{})
}
