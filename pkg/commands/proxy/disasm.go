package proxy

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/evm-proxy-inspector/disasm"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/flags"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/text"
	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
)

var (
	disasmLong = text.LongDesc(`
		Disassembles EVM runtime bytecode and reports the proxy patterns found in it.

		The bytecode is given as a hex argument, with or without the 0x prefix, or read from a file.
		No RPC connection is needed.`)

	disasmExample = text.Examples(`
		# Detect the proxy pattern of an EIP-1167 minimal proxy
		proxy-inspector disasm 0x363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf3

		# Print the full listing of bytecode stored in a file
		proxy-inspector disasm --file code.hex --listing`)
)

// NewDisasmCommand creates the "disasm" command.
func NewDisasmCommand(cfg Config) *cobra.Command {
	var (
		file    string
		listing bool
	)

	cmd := &cobra.Command{
		Use:     "disasm [hex]",
		Short:   "Disassemble bytecode and detect proxy patterns",
		Long:    disasmLong,
		Example: disasmExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(cmd, cfg, args, file, listing)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the hex encoded bytecode from a file")
	cmd.Flags().BoolVar(&listing, "listing", false, "Print the instruction listing")
	flags.Format(cmd)

	return cmd
}

func runDisasm(cmd *cobra.Command, cfg Config, args []string, file string, listing bool) error {
	deps := cfg.deps()

	format, err := flags.GetFormat(cmd)
	if err != nil {
		return err
	}

	var code string
	switch {
	case file != "" && len(args) > 0:
		return errors.New("give the bytecode either as an argument or with --file, not both")
	case file != "":
		b, err := deps.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read bytecode file: %w", err)
		}
		code = string(b)
	case len(args) > 0:
		code = args[0]
	default:
		return errors.New("bytecode is required, as an argument or with --file")
	}

	prog, err := disasm.DisassembleHex(code)
	if err != nil {
		return err
	}
	cfg.logger().Debugw("disassembled bytecode", "instructions", len(prog.Instructions), "proxies", len(prog.Proxies))

	out := cmd.OutOrStdout()
	if listing {
		if _, err := fmt.Fprint(out, prog.String()); err != nil {
			return err
		}
	}

	views := make([]candidateView, len(prog.Proxies))
	for i, c := range prog.Proxies {
		views[i] = newCandidateView(c)
	}

	return renderCandidates(out, format, views)
}

func newCandidateView(c proxies.ProxyCandidate) candidateView {
	v := candidateView{Name: c.Name()}
	switch c := c.(type) {
	case proxies.FixedProxyResolver:
		v.Address = c.ResolvedAddress.Hex()
	case proxies.EIP1967ProxyResolver:
		v.Slot = proxies.EIP1967ImplementationSlot.Hex()
	case proxies.ZeppelinOSProxyResolver:
		v.Slot = proxies.ZeppelinOSImplementationSlot.Hex()
	case proxies.DiamondProxyResolver:
		if c.StorageSlot != (common.Hash{}) {
			v.Slot = c.StorageSlot.Hex()
		} else {
			v.Slot = proxies.DiamondStorageSlot.Hex()
		}
	case proxies.GnosisSafeProxyResolver, proxies.SequenceWalletProxyResolver:
		v.Slot = common.Hash{}.Hex()
	}

	return v
}
