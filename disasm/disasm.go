// Package disasm decodes EVM bytecode into instructions and recognizes known proxy patterns in it.
package disasm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

// ErrMalformedBytecode is returned for hex input that is not valid bytecode.
var ErrMalformedBytecode = errors.New("malformed bytecode")

// Disassemble decodes code in a single pass. PUSH payloads are skipped over and never decoded as
// opcodes; a push cut short by the end of the code keeps the bytes that remain. Any input,
// including empty or random bytes, yields a Program.
//
// Proxy candidates are reported once each, in the order they first match.
func Disassemble(code []byte) *Program {
	prog := &Program{Instructions: make([]Instruction, 0, len(code)/2)}
	seen := make(map[proxies.ProxyCandidate]struct{})
	recent := make([]Instruction, 0, windowSize)

	for pc := 0; pc < len(code); {
		ins := Instruction{PC: uint64(pc), Op: vm.OpCode(code[pc])}
		next := pc + 1
		if ins.Op.IsPush() {
			n := int(ins.Op - vm.PUSH0)
			if end := min(next+n, len(code)); end > next {
				ins.Payload = common.CopyBytes(code[next:end])
			}
			next += n
		}
		prog.Instructions = append(prog.Instructions, ins)

		if len(recent) == windowSize {
			copy(recent, recent[1:])
			recent = recent[:windowSize-1]
		}
		recent = append(recent, ins)

		for _, t := range catalog {
			candidate, ok := t.match(recent)
			if !ok {
				continue
			}
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			prog.Proxies = append(prog.Proxies, candidate)
		}

		pc = next
	}

	return prog
}

// DisassembleHex decodes hex-encoded code, with or without a 0x prefix, and disassembles it.
func DisassembleHex(s string) (*Program, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}

	code, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBytecode, err)
	}

	return Disassemble(code), nil
}
