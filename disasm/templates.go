package disasm

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

// token matches one instruction: its opcode must fall in [lo, hi] and, if payloads is set, its
// payload must equal one of them.
type token struct {
	lo, hi   vm.OpCode
	payloads [][]byte
	capture  bool
}

func (t token) match(ins Instruction) bool {
	if ins.Op < t.lo || ins.Op > t.hi {
		return false
	}
	if len(t.payloads) == 0 {
		return true
	}
	for _, p := range t.payloads {
		if bytes.Equal(ins.Payload, p) {
			return true
		}
	}

	return false
}

func op(o vm.OpCode) token {
	return token{lo: o, hi: o}
}

func pushRange(lo, hi vm.OpCode) token {
	return token{lo: lo, hi: hi}
}

func push32(values ...[]byte) token {
	return token{lo: vm.PUSH32, hi: vm.PUSH32, payloads: values}
}

func (t token) captured() token {
	t.capture = true
	return t
}

// template is a run of consecutive instructions that identifies a proxy pattern.
type template struct {
	name   string
	tokens []token
	// build turns the payload of the capture token, if any, into a candidate.
	build func(capture []byte) proxies.ProxyCandidate
}

// match tests t against the instructions ending at the tail of window.
func (t template) match(window []Instruction) (proxies.ProxyCandidate, bool) {
	if len(window) < len(t.tokens) {
		return nil, false
	}

	tail := window[len(window)-len(t.tokens):]
	var capture []byte
	for i, tok := range t.tokens {
		if !tok.match(tail[i]) {
			return nil, false
		}
		if tok.capture {
			capture = tail[i].Payload
		}
	}

	return t.build(capture), true
}

var masterCopyWord = common.RightPadBytes(proxies.MasterCopySelector[:], common.HashLength)

// catalog lists the known proxy templates.
var catalog = []template{
	{
		// EIP-1167, Solady CWIA, Uniswap v1 and Vyper forwarders: push the implementation then
		// delegate all gas to it.
		name:   "fixed",
		tokens: []token{pushRange(vm.PUSH1, vm.PUSH20).captured(), op(vm.GAS), op(vm.DELEGATECALL)},
		build: func(capture []byte) proxies.ProxyCandidate {
			return proxies.FixedProxyResolver{ResolvedAddress: common.BytesToAddress(capture)}
		},
	},
	{
		name:   "sequence-wallet",
		tokens: []token{op(vm.ADDRESS), op(vm.SLOAD), op(vm.GAS), op(vm.DELEGATECALL)},
		build: func([]byte) proxies.ProxyCandidate {
			return proxies.SequenceWalletProxyResolver{}
		},
	},
	{
		// the selector of masterCopy(), left aligned for comparison with calldata
		name:   "gnosis-safe",
		tokens: []token{push32(masterCopyWord)},
		build: func([]byte) proxies.ProxyCandidate {
			return proxies.GnosisSafeProxyResolver{}
		},
	},
	{
		name:   "zeppelinos",
		tokens: []token{push32(proxies.ZeppelinOSImplementationSlot[:])},
		build: func([]byte) proxies.ProxyCandidate {
			return proxies.ZeppelinOSProxyResolver{}
		},
	},
	{
		name:   "eip1967",
		tokens: []token{push32(proxies.EIP1967ImplementationSlot[:], proxies.EIP1967BeaconSlot[:])},
		build: func([]byte) proxies.ProxyCandidate {
			return proxies.EIP1967ProxyResolver{}
		},
	},
	{
		name:   "diamond",
		tokens: []token{push32(proxies.DiamondStorageSlot[:], proxies.DiamondStandardStorageSlot[:]).captured()},
		build: func(capture []byte) proxies.ProxyCandidate {
			return proxies.DiamondProxyResolver{StorageSlot: common.BytesToHash(capture)}
		},
	},
}

// windowSize is the number of trailing instructions the longest template needs.
var windowSize = func() int {
	n := 0
	for _, t := range catalog {
		n = max(n, len(t.tokens))
	}

	return n
}()
