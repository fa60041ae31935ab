package starknet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	ErrFunctionNotFound  = errors.New("function not found in ABI")
	ErrUnsupportedType   = errors.New("unsupported calldata type")
	ErrArgumentCount     = errors.New("argument count does not match ABI inputs")
	ErrEmptyResult       = errors.New("call returned no values")
	ErrSignatureRejected = errors.New("signature rejected by account")

	// Node-side failures, matched through errors.Is on an RPCError.
	ErrContractNotFound = errors.New("contract not found")
	ErrBlockNotFound    = errors.New("block not found")
	ErrContractError    = errors.New("contract error")
)

// JSON-RPC error codes defined by the Starknet node API.
const (
	CodeContractNotFound = 20
	CodeBlockNotFound    = 24
	CodeContractError    = 40
)

// RPCError is an error object returned by the node.
type RPCError struct {
	Method  string
	Code    int
	Message string
	Data    any
}

func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%s: rpc error %d: %s (%v)", e.Method, e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("%s: rpc error %d: %s", e.Method, e.Code, e.Message)
}

// Unwrap maps well-known codes onto package sentinels.
func (e *RPCError) Unwrap() error {
	switch e.Code {
	case CodeContractNotFound:
		return ErrContractNotFound
	case CodeBlockNotFound:
		return ErrBlockNotFound
	case CodeContractError:
		return ErrContractError
	default:
		return nil
	}
}

// wrapCallError converts JSON-RPC errors into RPCError and leaves transport
// errors wrapped with the method name.
func wrapCallError(method string, err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: %w", method, err)
	}
	out := &RPCError{
		Method:  method,
		Code:    rpcErr.ErrorCode(),
		Message: rpcErr.Error(),
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		out.Data = dataErr.ErrorData()
	}
	return out
}
