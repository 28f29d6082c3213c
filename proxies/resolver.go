// Package proxies resolves the implementation behind the proxy patterns found in deployed EVM
// bytecode.
//
// Each supported pattern is a ProxyCandidate. Candidates are plain comparable values, produced by
// the disassembler or constructed directly, and resolved against a chain through an evm.Provider.
// A candidate that resolves to the zero address found no implementation; that is not an error.
package proxies

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
	"github.com/smartcontractkit/evm-proxy-inspector/slots"
)

// ErrSelectorRequired is returned when resolving a diamond without a function selector.
var ErrSelectorRequired = errors.New("diamond proxy resolution requires a function selector")

// ProxyCandidate is a proxy pattern detected in a contract's bytecode.
//
// The set of implementations is closed: FixedProxyResolver, SequenceWalletProxyResolver,
// GnosisSafeProxyResolver, ZeppelinOSProxyResolver, EIP1967ProxyResolver and
// DiamondProxyResolver.
type ProxyCandidate interface {
	// Name identifies the proxy pattern, e.g. "EIP1967Proxy".
	Name() string
	String() string
	// Resolve returns the implementation address for the proxy deployed at address, or the zero
	// address if none is set. Provider errors are returned wrapped.
	Resolve(ctx context.Context, p evm.Provider, address common.Address, opts ...ResolveOption) (common.Address, error)

	isProxyCandidate()
}

// Selector is a 4-byte function selector.
type Selector [4]byte

// ParseSelector parses a 0x-prefixed 4-byte hex selector.
func ParseSelector(s string) (Selector, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	if len(b) != len(Selector{}) {
		return Selector{}, fmt.Errorf("invalid selector %q: want 4 bytes, got %d", s, len(b))
	}

	return Selector(b), nil
}

// MustParseSelector is ParseSelector panicking on error, for constants.
func MustParseSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}

	return sel
}

func (s Selector) Hex() string {
	return hexutil.Encode(s[:])
}

func (s Selector) String() string {
	return s.Hex()
}

// IsZero reports whether s is the empty selector 0x00000000.
func (s Selector) IsZero() bool {
	return s == Selector{}
}

// ResolveOption configures a single Resolve call.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	selector    Selector
	hasSelector bool
}

func newResolveOptions(opts []ResolveOption) resolveOptions {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithSelector resolves the facet serving sel. Only diamonds use it; other candidates ignore it.
func WithSelector(sel Selector) ResolveOption {
	return func(o *resolveOptions) {
		o.selector = sel
		o.hasSelector = true
	}
}

// readAddress reads the address stored in the low-order bytes of slot.
func readAddress(ctx context.Context, p evm.Provider, address common.Address, slot common.Hash) (common.Address, error) {
	word, err := p.GetStorageAt(ctx, address, slot)
	if err != nil {
		return common.Address{}, fmt.Errorf("read storage slot %s of %s: %w", slot, address, err)
	}

	return slots.LowAddress(word), nil
}

// callAddress calls a no-argument getter and decodes its first return word as an address.
// ok is false if the call reverted or returned less than a full word.
func callAddress(ctx context.Context, p evm.Provider, to common.Address, data []byte) (addr common.Address, ok bool, err error) {
	out, err := p.Call(ctx, to, data)
	if err != nil {
		if errors.Is(err, evm.ErrCallReverted) {
			return common.Address{}, false, nil
		}

		return common.Address{}, false, fmt.Errorf("call %s on %s: %w", hexutil.Encode(data), to, err)
	}
	if len(out) < common.HashLength {
		return common.Address{}, false, nil
	}

	return common.BytesToAddress(out[common.HashLength-common.AddressLength : common.HashLength]), true, nil
}
