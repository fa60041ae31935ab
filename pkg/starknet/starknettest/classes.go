package starknettest

import "encoding/json"

// sierraAccountABI is trimmed from an OpenZeppelin Cairo 1 account.
const sierraAccountABI = `[
  {"type": "impl", "name": "SRC6Impl", "interface_name": "openzeppelin::account::interface::ISRC6"},
  {"type": "struct", "name": "core::array::Span::<core::felt252>", "members": [{"name": "snapshot", "type": "@core::array::Array::<core::felt252>"}]},
  {"type": "interface", "name": "openzeppelin::account::interface::ISRC6", "items": [
    {"type": "function", "name": "is_valid_signature",
     "inputs": [{"name": "hash", "type": "core::felt252"}, {"name": "signature", "type": "core::array::Array::<core::felt252>"}],
     "outputs": [{"type": "core::felt252"}], "state_mutability": "view"}
  ]},
  {"type": "function", "name": "get_public_key", "inputs": [], "outputs": [{"type": "core::felt252"}], "state_mutability": "view"},
  {"type": "event", "name": "openzeppelin::account::account::AccountComponent::Event", "kind": "enum", "variants": []}
]`

// legacyAccountABI is trimmed from a Cairo 0 account.
const legacyAccountABI = `[
  {"type": "function", "name": "isValidSignature",
   "inputs": [{"name": "hash", "type": "felt"}, {"name": "signature_len", "type": "felt"}, {"name": "signature", "type": "felt*"}],
   "outputs": [{"name": "isValid", "type": "felt"}], "stateMutability": "view"},
  {"type": "function", "name": "getPublicKey", "inputs": [], "outputs": [{"name": "publicKey", "type": "felt"}], "stateMutability": "view"}
]`

// SierraAccountClass is a starknet_getClassAt result for a Cairo 1 account:
// the ABI arrives as a JSON-encoded string.
func SierraAccountClass() map[string]any {
	return map[string]any{
		"sierra_program":         []string{"0x1"},
		"contract_class_version": "0.1.0",
		"entry_points_by_type":   map[string]any{"EXTERNAL": []any{}, "L1_HANDLER": []any{}, "CONSTRUCTOR": []any{}},
		"abi":                    sierraAccountABI,
	}
}

// LegacyAccountClass is a starknet_getClassAt result for a Cairo 0 account:
// the ABI arrives as a JSON array.
func LegacyAccountClass() map[string]any {
	return map[string]any{
		"program":              "H4sIAAAAAAAA",
		"entry_points_by_type": map[string]any{"EXTERNAL": []any{}, "L1_HANDLER": []any{}, "CONSTRUCTOR": []any{}},
		"abi":                  json.RawMessage(legacyAccountABI),
	}
}
