package disasm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

// Instruction is a single decoded opcode.
type Instruction struct {
	// PC is the byte offset of the opcode in the code.
	PC uint64
	Op vm.OpCode
	// Payload holds the immediate bytes of PUSH1..PUSH32. It is shorter than the push width when
	// the code ends inside the push.
	Payload []byte
}

// Mnemonic returns the opcode name, or UNKNOWN_0x.. for bytes that are not an opcode.
func (i Instruction) Mnemonic() string {
	name := i.Op.String()
	if vm.StringToOp(name) != i.Op {
		return fmt.Sprintf("UNKNOWN_0x%02x", byte(i.Op))
	}

	return name
}

func (i Instruction) String() string {
	if len(i.Payload) == 0 {
		return fmt.Sprintf("0x%04x: %s", i.PC, i.Mnemonic())
	}

	return fmt.Sprintf("0x%04x: %s %#x", i.PC, i.Mnemonic(), i.Payload)
}

// Program is the result of disassembling contract code.
type Program struct {
	Instructions []Instruction
	// Proxies are the proxy patterns found, in order of first appearance.
	Proxies []proxies.ProxyCandidate
}

// String returns the disassembly listing, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for _, ins := range p.Instructions {
		sb.WriteString(ins.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
