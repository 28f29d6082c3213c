// Package flags provides reusable flag helpers for CLI commands.
//
// This package should only contain common flags that can be used by multiple commands
// to ensure unified naming and consistent behavior across the CLI.
// Command-specific flags should be defined locally in the command file.
package flags

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// Output formats accepted by Format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var formats = []string{FormatTable, FormatJSON, FormatYAML}

// MustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func MustString(s string, _ error) string { return s }

// MustStringSlice returns the string slice value, ignoring the error.
func MustStringSlice(s []string, _ error) []string { return s }

// Address adds the required --address/-a flag to a command.
// Retrieve the parsed value with GetAddress.
func Address(cmd *cobra.Command) {
	cmd.Flags().StringP("address", "a", "", "Contract address (required)")
	_ = cmd.MarkFlagRequired("address")
}

// GetAddress returns the --address flag as an address. The value must be a 20-byte hex string.
func GetAddress(cmd *cobra.Command) (common.Address, error) {
	s := MustString(cmd.Flags().GetString("address"))
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}

	return common.HexToAddress(s), nil
}

// Config adds the --config/-c flag for the path of the YAML configuration file. When the file
// does not exist the configuration is read from the environment.
func Config(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to the configuration file")
}

// RPCURL adds the repeatable --rpc-url flag. Any value replaces the RPC URLs of the configuration;
// the first URL is the primary and the rest are backups.
func RPCURL(cmd *cobra.Command) {
	cmd.Flags().StringSlice("rpc-url", nil, "RPC URL to read from, repeatable (overrides the configuration)")
}

// Format adds the --format/-f flag selecting table, json or yaml output.
// Retrieve the validated value with GetFormat.
func Format(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", FormatTable, "Output format: table, json or yaml")
}

// GetFormat returns the --format flag, rejecting unknown formats.
func GetFormat(cmd *cobra.Command) (string, error) {
	f := MustString(cmd.Flags().GetString("format"))
	if !slices.Contains(formats, f) {
		return "", fmt.Errorf("unknown format %q, want one of %v", f, formats)
	}

	return f, nil
}
