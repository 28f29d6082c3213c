package proxies

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// GnosisSafeProxyResolver is a Gnosis Safe proxy. The singleton lives in slot 0 and is exposed
// through masterCopy() on most deployments.
type GnosisSafeProxyResolver struct{}

func (GnosisSafeProxyResolver) Name() string   { return "GnosisSafeProxy" }
func (GnosisSafeProxyResolver) String() string { return "GnosisSafeProxy" }
func (GnosisSafeProxyResolver) isProxyCandidate() {}

// Resolve calls masterCopy(), falling back to reading slot 0 when the call reverts or returns
// less than a word.
func (GnosisSafeProxyResolver) Resolve(ctx context.Context, p evm.Provider, address common.Address, _ ...ResolveOption) (common.Address, error) {
	impl, ok, err := callAddress(ctx, p, address, MasterCopySelector[:])
	if err != nil {
		return common.Address{}, err
	}
	if ok {
		return impl, nil
	}

	return readAddress(ctx, p, address, common.Hash{})
}
