package proxies

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// ZeppelinOSProxyResolver is a legacy ZeppelinOS upgradeability proxy.
type ZeppelinOSProxyResolver struct{}

func (ZeppelinOSProxyResolver) Name() string   { return "ZeppelinOSProxy" }
func (ZeppelinOSProxyResolver) String() string { return "ZeppelinOSProxy" }
func (ZeppelinOSProxyResolver) isProxyCandidate() {}

func (ZeppelinOSProxyResolver) Resolve(ctx context.Context, p evm.Provider, address common.Address, _ ...ResolveOption) (common.Address, error) {
	return readAddress(ctx, p, address, ZeppelinOSImplementationSlot)
}
