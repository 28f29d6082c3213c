package evm

import (
	"fmt"
	"strings"
)

// URLSchemePreference selects which endpoint of an RPC is dialed.
type URLSchemePreference int

const (
	URLSchemePreferenceNone URLSchemePreference = iota
	URLSchemePreferenceWS
	URLSchemePreferenceHTTP
)

// URLSchemePreferenceFromString parses "ws" or "http". An empty string yields
// URLSchemePreferenceNone.
func URLSchemePreferenceFromString(s string) (URLSchemePreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return URLSchemePreferenceNone, nil
	case "ws", "wss":
		return URLSchemePreferenceWS, nil
	case "http", "https":
		return URLSchemePreferenceHTTP, nil
	default:
		return URLSchemePreferenceNone, fmt.Errorf("unknown url scheme preference %q", s)
	}
}

// RPC is a single node endpoint, reachable over HTTP and/or websockets.
type RPC struct {
	Name               string
	WSURL              string
	HTTPURL            string
	PreferredURLScheme URLSchemePreference
}

// ToEndpoint returns the URL to dial. Without a preference, HTTP wins over WS.
func (r RPC) ToEndpoint() (string, error) {
	switch r.PreferredURLScheme {
	case URLSchemePreferenceWS:
		if r.WSURL == "" {
			return "", fmt.Errorf("rpc %q prefers ws but has no ws url", r.Name)
		}

		return r.WSURL, nil
	case URLSchemePreferenceHTTP:
		if r.HTTPURL == "" {
			return "", fmt.Errorf("rpc %q prefers http but has no http url", r.Name)
		}

		return r.HTTPURL, nil
	case URLSchemePreferenceNone:
		if r.HTTPURL != "" {
			return r.HTTPURL, nil
		}
		if r.WSURL != "" {
			return r.WSURL, nil
		}

		return "", fmt.Errorf("rpc %q has no url", r.Name)
	default:
		return "", fmt.Errorf("rpc %q has unknown url scheme preference %d", r.Name, r.PreferredURLScheme)
	}
}

// RPCConfig is the set of RPCs for a single chain.
type RPCConfig struct {
	ChainSelector uint64
	RPCs          []RPC
}
