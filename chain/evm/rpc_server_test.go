package evm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type jsonrpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

// rpcHandler answers a single JSON-RPC method. A non-nil error is sent as the error payload.
type rpcHandler func(params []json.RawMessage) (any, *jsonrpcError)

// newDispatchRPCServer returns a fake RPC server which routes each request to the handler
// registered for its method. eth_blockNumber always answers 0x1 unless overridden, so the
// health check passes. Unknown methods get a -32601 error.
//
// The returned counter is incremented for every request received. When the test is done, the
// server is closed automatically.
func newDispatchRPCServer(t *testing.T, handlers map[string]rpcHandler) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req jsonrpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
		if h, ok := handlers[req.Method]; ok {
			resp.Result, resp.Error = h(req.Params)
		} else if req.Method == "eth_blockNumber" {
			resp.Result = "0x1"
		} else {
			resp.Error = &jsonrpcError{Code: -32601, Message: "method not found"}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv, &calls
}

// newBadRPCServer returns a fake RPC server which always answers with a JSON-RPC error payload.
func newBadRPCServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"internal error"}}`))
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func result(v any) rpcHandler {
	return func([]json.RawMessage) (any, *jsonrpcError) {
		return v, nil
	}
}

func failure(code int, message, data string) rpcHandler {
	return func([]json.RawMessage) (any, *jsonrpcError) {
		return nil, &jsonrpcError{Code: code, Message: message, Data: data}
	}
}
