// Package starknettest provides an in-process Starknet JSON-RPC node for tests.
package starknettest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is a JSON-RPC request as received by the node.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Handler answers a single method. Returning a non-nil Error sends it instead of the result.
type Handler func(params []json.RawMessage) (any, *Error)

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Node is an httptest server speaking JSON-RPC over HTTP.
type Node struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	failing  map[string]int
	requests []Request
}

// NewNode starts a node with no handlers; callers must Close it.
func NewNode() *Node {
	n := &Node{
		handlers: make(map[string]Handler),
		failing:  make(map[string]int),
	}
	n.Server = httptest.NewServer(http.HandlerFunc(n.serve))
	return n
}

// Handle registers h for method.
func (n *Node) Handle(method string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

// Result registers a handler that always returns result.
func (n *Node) Result(method string, result any) {
	n.Handle(method, func([]json.RawMessage) (any, *Error) { return result, nil })
}

// Fail makes requests for method get a bare HTTP status instead of a
// JSON-RPC response, as an unreachable or broken upstream would.
func (n *Node) Fail(method string, status int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing[method] = status
}

// Requests returns every request received so far.
func (n *Node) Requests() []Request {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Request(nil), n.requests...)
}

// Methods returns the method names received so far, in order.
func (n *Node) Methods() []string {
	reqs := n.Requests()
	methods := make([]string, len(reqs))
	for i, r := range reqs {
		methods[i] = r.Method
	}
	return methods
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.requests = append(n.requests, req)
	status, failing := n.failing[req.Method]
	handler, ok := n.handlers[req.Method]
	n.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}
	if !ok {
		resp.Error = &Error{Code: -32601, Message: "Method not found"}
	} else if result, rpcErr := handler(req.Params); rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
