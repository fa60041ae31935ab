package starknet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

// ABIParam is a named, typed function input or output.
type ABIParam struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// ABIEntry is one item of a class ABI. Only the fields needed to locate
// functions and encode their inputs are decoded; struct, enum and event
// entries are kept but otherwise ignored.
type ABIEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []ABIParam `json:"inputs,omitempty"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"state_mutability,omitempty"`
	Items           []ABIEntry `json:"items,omitempty"`
}

// ABI is a class interface. Cairo 0 nodes return it as a JSON array, Sierra
// classes as a string holding that array; both decode here.
type ABI []ABIEntry

func (a *ABI) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if encoded == "" {
			*a = nil
			return nil
		}
		data = []byte(encoded)
	}

	var entries []ABIEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode abi: %w", err)
	}
	*a = entries
	return nil
}

// Function finds a function entry by name, descending into Cairo 1 interfaces.
func (a ABI) Function(name string) (ABIEntry, bool) {
	for _, entry := range a {
		switch entry.Type {
		case "function":
			if entry.Name == name {
				return entry, true
			}
		case "interface":
			if fn, ok := ABI(entry.Items).Function(name); ok {
				return fn, true
			}
		}
	}
	return ABIEntry{}, false
}

// EncodeCalldata serializes args against inputs. Felt-like inputs take a
// stark.Felt; array inputs (felt*, Array and Span of felt252) take a
// []stark.Felt and are written length first. A Cairo 0 "<name>_len" input
// directly followed by "<name>" of array type is filled from that array.
func EncodeCalldata(inputs []ABIParam, args ...any) ([]stark.Felt, error) {
	var (
		calldata []stark.Felt
		next     int
	)
	for i, in := range inputs {
		if isLengthParam(inputs, i) {
			continue
		}
		if next >= len(args) {
			return nil, fmt.Errorf("%w: have %d, missing %q", ErrArgumentCount, len(args), in.Name)
		}
		arg := args[next]
		next++

		switch {
		case isFeltArray(in.Type):
			items, ok := arg.([]stark.Felt)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects []stark.Felt, got %T", ErrUnsupportedType, in.Name, arg)
			}
			calldata = append(calldata, stark.FeltFromUint64(uint64(len(items))))
			calldata = append(calldata, items...)
		case isFeltLike(in.Type):
			f, ok := arg.(stark.Felt)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects stark.Felt, got %T", ErrUnsupportedType, in.Name, arg)
			}
			calldata = append(calldata, f)
		default:
			return nil, fmt.Errorf("%w: %s has type %s", ErrUnsupportedType, in.Name, in.Type)
		}
	}
	if next != len(args) {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrArgumentCount, len(args), next)
	}
	return calldata, nil
}

func isLengthParam(inputs []ABIParam, i int) bool {
	name, ok := strings.CutSuffix(inputs[i].Name, "_len")
	if !ok || i+1 >= len(inputs) {
		return false
	}
	following := inputs[i+1]
	return following.Name == name && isFeltArray(following.Type)
}

func isFeltArray(t string) bool {
	switch t {
	case "felt*",
		"core::array::Array::<core::felt252>",
		"core::array::Span::<core::felt252>":
		return true
	}
	return false
}

func isFeltLike(t string) bool {
	switch t {
	case "felt",
		"felt252",
		"core::felt252",
		"core::bool",
		"core::starknet::contract_address::ContractAddress",
		"core::starknet::class_hash::ClassHash",
		"core::integer::u8",
		"core::integer::u16",
		"core::integer::u32",
		"core::integer::u64",
		"core::integer::u128":
		return true
	}
	return false
}
