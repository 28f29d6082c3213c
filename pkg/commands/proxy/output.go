package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/evm-proxy-inspector/inspector"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands/flags"
)

// candidateView is the printable form of a detected proxy candidate.
type candidateView struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Slot    string `json:"storageSlot,omitempty" yaml:"storageSlot,omitempty"`
}

// facetView is the printable form of a diamond facet.
type facetView struct {
	Facet     common.Address `json:"facet" yaml:"facet"`
	Selectors []string       `json:"selectors,omitempty" yaml:"selectors,omitempty"`
}

// writeStructured writes v as JSON or YAML. It reports false for the table format.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case flags.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return true, enc.Encode(v)
	case flags.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}

		return true, enc.Close()
	default:
		return false, nil
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{
		Left:   false,
		Right:  false,
		Top:    true,
		Bottom: true,
	})

	return table
}

func renderCandidates(w io.Writer, format string, candidates []candidateView) error {
	if ok, err := writeStructured(w, format, candidates); ok {
		return err
	}
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, "no proxy detected")
		return err
	}

	table := newTable(w, "Proxy", "Address", "Storage Slot")
	for _, c := range candidates {
		table.Append([]string{c.Name, c.Address, c.Slot})
	}
	table.Render()

	return nil
}

func renderReport(w io.Writer, format string, report *inspector.Report) error {
	if ok, err := writeStructured(w, format, report); ok {
		return err
	}

	table := newTable(w, "Address", "Code Size", "Proxy", "Implementations")
	for r := report; r != nil; r = r.Next {
		if r.CodeSize == 0 {
			table.Append([]string{r.Address.Hex(), "0", "no code", ""})
			continue
		}
		if len(r.Proxies) == 0 {
			table.Append([]string{r.Address.Hex(), fmt.Sprint(r.CodeSize), "none", ""})
			continue
		}
		for _, p := range r.Proxies {
			name := p.Name
			if p.Facets {
				name += " (facets)"
			}
			impls := "unresolved"
			if len(p.Implementations) > 0 {
				impls = joinAddresses(p.Implementations)
			}
			table.Append([]string{r.Address.Hex(), fmt.Sprint(r.CodeSize), name, impls})
		}
	}
	table.Render()

	return nil
}

func renderFacets(w io.Writer, format string, facets []facetView) error {
	if ok, err := writeStructured(w, format, facets); ok {
		return err
	}

	table := newTable(w, "Facet", "Selectors")
	for _, f := range facets {
		table.Append([]string{f.Facet.Hex(), strings.Join(f.Selectors, " ")})
	}
	table.Render()

	return nil
}

func joinAddresses(addrs []common.Address) string {
	hexes := make([]string, len(addrs))
	for i, a := range addrs {
		hexes[i] = a.Hex()
	}

	return strings.Join(hexes, "\n")
}
