package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// ClientProvider should comply with the Provider interface
var _ Provider = &ClientProvider{}

// ClientProviderOption configures a ClientProvider.
type ClientProviderOption func(*ClientProvider)

// WithBlockNumber pins every read to the given block. A nil block reads the latest state.
func WithBlockNumber(block *big.Int) ClientProviderOption {
	return func(p *ClientProvider) {
		p.block = block
	}
}

// ClientProvider adapts an OnchainClient to the Provider interface.
type ClientProvider struct {
	client OnchainClient
	block  *big.Int
}

// NewClientProvider wraps client as a Provider.
func NewClientProvider(client OnchainClient, opts ...ClientProviderOption) *ClientProvider {
	p := &ClientProvider{client: client}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *ClientProvider) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	return p.client.CodeAt(ctx, address, p.block)
}

func (p *ClientProvider) GetStorageAt(ctx context.Context, address common.Address, slot common.Hash) (common.Hash, error) {
	word, err := p.client.StorageAt(ctx, address, slot, p.block)
	if err != nil {
		return common.Hash{}, err
	}

	return common.BytesToHash(word), nil
}

func (p *ClientProvider) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := p.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, p.block)
	if err != nil {
		if IsRevert(err) {
			return nil, fmt.Errorf("%w: %w", ErrCallReverted, err)
		}

		return nil, err
	}

	return out, nil
}

// IsRevert reports whether err is the node telling us the call executed and reverted.
// Transport failures, timeouts and cancellations are not reverts.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCallReverted) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// geth attaches the revert payload as error data
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return true
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		msg := strings.ToLower(rpcErr.Error())
		return strings.Contains(msg, "revert") || strings.Contains(msg, "invalid opcode")
	}

	return false
}
