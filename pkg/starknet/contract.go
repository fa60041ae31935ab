package starknet

import (
	"context"
	"fmt"

	"github.com/snehendu098/ghost/snverify/pkg/sign"
	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

// Caller executes view calls. *Provider implements it.
type Caller interface {
	Call(ctx context.Context, call FunctionCall, blockID BlockID) ([]stark.Felt, error)
}

// ClassReader fetches class definitions. *Provider implements it.
type ClassReader interface {
	ClassAt(ctx context.Context, blockID BlockID, address stark.Felt) (*ContractClass, error)
}

// Reader is the read side of a node needed to bind and call contracts.
type Reader interface {
	Caller
	ClassReader
}

var _ Reader = (*Provider)(nil)

// Contract binds an ABI to a deployed address.
type Contract struct {
	abi     ABI
	address stark.Felt
	caller  Caller
}

func NewContract(abi ABI, address stark.Felt, caller Caller) *Contract {
	return &Contract{abi: abi, address: address, caller: caller}
}

// ContractAt fetches the class at address and binds its ABI.
func ContractAt(ctx context.Context, provider Reader, address stark.Felt) (*Contract, error) {
	class, err := provider.ClassAt(ctx, LatestBlock, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch class at %s: %w", address, err)
	}
	return NewContract(class.ABI, address, provider), nil
}

func (c *Contract) Address() stark.Felt { return c.address }

func (c *Contract) ABI() ABI { return c.abi }

// Call invokes a view function by name against the latest block.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]stark.Felt, error) {
	fn, ok := c.abi.Function(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, method)
	}
	calldata, err := EncodeCalldata(fn.Inputs, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s calldata: %w", method, err)
	}
	return c.caller.Call(ctx, FunctionCall{
		ContractAddress:    c.address,
		EntryPointSelector: stark.Selector(method),
		Calldata:           calldata,
	}, LatestBlock)
}

// validationMethods are tried in order; the camel-case name is exposed by
// older account implementations.
var validationMethods = []string{"is_valid_signature", "isValidSignature"}

// ValidatedValue is what SNIP-6 accounts return for an accepted signature.
var ValidatedValue = stark.MustFeltFromShortString("VALID")

// ValidationResult is the decoded answer of an account's signature check.
type ValidationResult struct {
	Raw    stark.Felt
	Status string
	Valid  bool
}

// DecodeValidation interprets the return values of is_valid_signature.
// 'VALID' and the legacy 1 are affirmative.
func DecodeValidation(result []stark.Felt) (ValidationResult, error) {
	if len(result) == 0 {
		return ValidationResult{}, ErrEmptyResult
	}
	raw := result[0]
	status := raw.String()
	if raw.IsPrintableShortString() {
		status = raw.ShortString()
	}
	return ValidationResult{
		Raw:    raw,
		Status: status,
		Valid:  raw.Equal(ValidatedValue) || raw.Equal(stark.FeltFromUint64(1)),
	}, nil
}

// IsValidSignature asks the account contract to check sig against hash. A
// decoded negative answer is returned together with ErrSignatureRejected.
func (c *Contract) IsValidSignature(ctx context.Context, hash stark.Felt, sig sign.Signature) (ValidationResult, error) {
	method := ""
	for _, name := range validationMethods {
		if _, ok := c.abi.Function(name); ok {
			method = name
			break
		}
	}
	if method == "" {
		return ValidationResult{}, fmt.Errorf("%w: %s", ErrFunctionNotFound, validationMethods[0])
	}

	result, err := c.Call(ctx, method, hash, sig.Felts())
	if err != nil {
		return ValidationResult{}, err
	}
	res, err := DecodeValidation(result)
	if err != nil {
		return ValidationResult{}, err
	}
	if !res.Valid {
		return res, fmt.Errorf("%w: returned %s", ErrSignatureRejected, res.Status)
	}
	return res, nil
}
