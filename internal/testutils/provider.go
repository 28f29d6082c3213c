// Package testutils provides in-memory test doubles for the on-chain Provider.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

// FakeProvider should comply with the Provider interface
var _ evm.Provider = &FakeProvider{}

type callKey struct {
	to   common.Address
	data string
}

type callResult struct {
	out []byte
	err error
}

// FakeProvider is a map-backed Provider. Unset storage reads as zero, unset code as empty and
// unregistered calls revert. It is safe for concurrent use and counts every request it serves.
type FakeProvider struct {
	mu      sync.Mutex
	code    map[common.Address][]byte
	storage map[common.Address]map[common.Hash]common.Hash
	calls   map[callKey]callResult
	errs    map[common.Address]error

	CodeReads    int
	StorageReads int
	Calls        int
}

// NewFakeProvider returns an empty FakeProvider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		code:    make(map[common.Address][]byte),
		storage: make(map[common.Address]map[common.Hash]common.Hash),
		calls:   make(map[callKey]callResult),
		errs:    make(map[common.Address]error),
	}
}

// SetCode deploys code at address.
func (f *FakeProvider) SetCode(address common.Address, code []byte) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.code[address] = code

	return f
}

// SetStorage stores word at slot of address.
func (f *FakeProvider) SetStorage(address common.Address, slot, word common.Hash) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.storage[address] == nil {
		f.storage[address] = make(map[common.Hash]common.Hash)
	}
	f.storage[address][slot] = word

	return f
}

// SetCall registers the answer to a call of to with exactly data.
func (f *FakeProvider) SetCall(to common.Address, data []byte, out []byte, err error) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[callKey{to: to, data: hexutil.Encode(data)}] = callResult{out: out, err: err}

	return f
}

// FailAll makes every request touching address fail with err.
func (f *FakeProvider) FailAll(address common.Address, err error) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errs[address] = err

	return f
}

// Requests returns the total number of requests served.
func (f *FakeProvider) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.CodeReads + f.StorageReads + f.Calls
}

func (f *FakeProvider) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CodeReads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[address]; err != nil {
		return nil, err
	}

	return common.CopyBytes(f.code[address]), nil
}

func (f *FakeProvider) GetStorageAt(ctx context.Context, address common.Address, slot common.Hash) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.StorageReads++
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}
	if err := f.errs[address]; err != nil {
		return common.Hash{}, err
	}

	return f.storage[address][slot], nil
}

func (f *FakeProvider) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[to]; err != nil {
		return nil, err
	}

	res, ok := f.calls[callKey{to: to, data: hexutil.Encode(data)}]
	if !ok {
		return nil, fmt.Errorf("%w: no answer for %s on %s", evm.ErrCallReverted, hexutil.Encode(data), to)
	}

	return common.CopyBytes(res.out), res.err
}
