package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSchemePreferenceFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give    string
		want    URLSchemePreference
		wantErr string
	}{
		{give: "", want: URLSchemePreferenceNone},
		{give: "ws", want: URLSchemePreferenceWS},
		{give: " WSS ", want: URLSchemePreferenceWS},
		{give: "http", want: URLSchemePreferenceHTTP},
		{give: "HTTPS", want: URLSchemePreferenceHTTP},
		{give: "grpc", wantErr: `unknown url scheme preference "grpc"`},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			got, err := URLSchemePreferenceFromString(tt.give)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRPC_ToEndpoint(t *testing.T) {
	t.Parallel()

	const (
		ws   = "wss://node.example/ws"
		http = "https://node.example/rpc"
	)

	tests := []struct {
		name    string
		rpc     RPC
		want    string
		wantErr string
	}{
		{name: "prefers ws", rpc: RPC{Name: "a", WSURL: ws, HTTPURL: http, PreferredURLScheme: URLSchemePreferenceWS}, want: ws},
		{name: "prefers http", rpc: RPC{Name: "a", WSURL: ws, HTTPURL: http, PreferredURLScheme: URLSchemePreferenceHTTP}, want: http},
		{name: "no preference picks http", rpc: RPC{Name: "a", WSURL: ws, HTTPURL: http}, want: http},
		{name: "no preference falls back to ws", rpc: RPC{Name: "a", WSURL: ws}, want: ws},
		{name: "missing ws", rpc: RPC{Name: "a", HTTPURL: http, PreferredURLScheme: URLSchemePreferenceWS}, wantErr: `rpc "a" prefers ws`},
		{name: "missing http", rpc: RPC{Name: "a", WSURL: ws, PreferredURLScheme: URLSchemePreferenceHTTP}, wantErr: `rpc "a" prefers http`},
		{name: "no url", rpc: RPC{Name: "a"}, wantErr: `rpc "a" has no url`},
		{name: "unknown preference", rpc: RPC{Name: "a", HTTPURL: http, PreferredURLScheme: 7}, wantErr: "unknown url scheme preference 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.rpc.ToEndpoint()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
