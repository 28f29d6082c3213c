package evm

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ErrCallReverted is returned by Provider.Call when the target executed and reverted, as opposed
// to the call failing to reach the node.
var ErrCallReverted = errors.New("execution reverted")

// Provider reads on-chain code and storage and issues read-only calls.
//
// Every operation that may block on the network goes through a Provider. Implementations own
// retries, timeouts and cancellation; callers propagate Provider errors unchanged.
type Provider interface {
	// GetCode returns the deployed bytecode at address, possibly empty.
	GetCode(ctx context.Context, address common.Address) ([]byte, error)
	// GetStorageAt returns the raw 32-byte storage word at slot.
	GetStorageAt(ctx context.Context, address common.Address, slot common.Hash) (common.Hash, error)
	// Call executes a non-state-mutating call and returns its return data. A call that reverts
	// returns an error wrapping ErrCallReverted.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// OnchainClient is the subset of the geth client API a Provider needs.
// Both *ethclient.Client and *MultiClient satisfy it.
type OnchainClient interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}
