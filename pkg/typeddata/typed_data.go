package typeddata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

const (
	// DomainType is the struct name the domain separator is hashed as (revision 0).
	DomainType = "StarkNetDomain"

	messagePrefix = "StarkNet Message"

	// maxExactFloat is the largest float64 below which every integer is exact.
	maxExactFloat = 1 << 53
)

var (
	ErrUnknownType        = errors.New("unknown type")
	ErrMissingField       = errors.New("missing field")
	ErrInvalidValue       = errors.New("invalid value")
	ErrMissingDomainType  = fmt.Errorf("types must declare %s", DomainType)
	ErrMissingPrimaryType = errors.New("primary type is not declared")
)

// Field is a single named member of a struct type.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Types maps struct names to their ordered fields.
type Types map[string][]Field

// TypedData is a SNIP-12 (revision 0) structured message.
type TypedData struct {
	Types       Types          `json:"types" yaml:"types"`
	PrimaryType string         `json:"primaryType" yaml:"primaryType"`
	Domain      map[string]any `json:"domain" yaml:"domain"`
	Message     map[string]any `json:"message" yaml:"message"`
}

// New assembles typed data and checks that the primary and domain types are declared.
func New(types Types, primaryType string, domain, message map[string]any) (*TypedData, error) {
	td := &TypedData{
		Types:       types,
		PrimaryType: primaryType,
		Domain:      domain,
		Message:     message,
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return td, nil
}

// NewDomain returns the standard name/version/chainId domain.
func NewDomain(name, version string, chainID any) map[string]any {
	return map[string]any{
		"name":    name,
		"version": version,
		"chainId": chainID,
	}
}

// Validate checks the structural requirements hashing depends on.
func (td *TypedData) Validate() error {
	if _, ok := td.Types[DomainType]; !ok {
		return ErrMissingDomainType
	}
	if _, ok := td.Types[td.PrimaryType]; !ok {
		return fmt.Errorf("%w: %q", ErrMissingPrimaryType, td.PrimaryType)
	}
	return nil
}

// EncodeType renders typeName and every struct it references, e.g.
// "Mail(from:Person,contents:felt)Person(name:felt,wallet:felt)".
// The requested type comes first, dependencies follow in alphabetical order.
func (td *TypedData) EncodeType(typeName string) (string, error) {
	if _, ok := td.Types[typeName]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}

	var deps []string
	td.collectDependencies(typeName, map[string]bool{}, &deps)
	sort.Strings(deps[1:])

	var b strings.Builder
	for _, dep := range deps {
		b.WriteString(dep)
		b.WriteByte('(')
		for i, f := range td.Types[dep] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			b.WriteString(f.Type)
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}

func (td *TypedData) collectDependencies(typeName string, seen map[string]bool, out *[]string) {
	typeName = strings.TrimSuffix(typeName, "*")
	fields, ok := td.Types[typeName]
	if !ok || seen[typeName] {
		return
	}
	seen[typeName] = true
	*out = append(*out, typeName)
	for _, f := range fields {
		td.collectDependencies(f.Type, seen, out)
	}
}

// TypeHash is the starknet keccak of EncodeType.
func (td *TypedData) TypeHash(typeName string) (stark.Felt, error) {
	encoded, err := td.EncodeType(typeName)
	if err != nil {
		return stark.Felt{}, err
	}
	return stark.Keccak([]byte(encoded)), nil
}

// StructHash hashes data as an instance of typeName: the Pedersen chain over
// the type hash followed by each encoded field in declaration order.
func (td *TypedData) StructHash(typeName string, data map[string]any) (stark.Felt, error) {
	typeHash, err := td.TypeHash(typeName)
	if err != nil {
		return stark.Felt{}, err
	}

	fields := td.Types[typeName]
	elems := make([]stark.Felt, 0, len(fields)+1)
	elems = append(elems, typeHash)
	for _, f := range fields {
		value, ok := data[f.Name]
		if !ok {
			return stark.Felt{}, fmt.Errorf("%w: %s.%s", ErrMissingField, typeName, f.Name)
		}
		encoded, err := td.encodeValue(f.Type, value)
		if err != nil {
			return stark.Felt{}, fmt.Errorf("%s.%s: %w", typeName, f.Name, err)
		}
		elems = append(elems, encoded)
	}
	return stark.HashOnElements(elems...), nil
}

// DomainHash hashes the domain separator.
func (td *TypedData) DomainHash() (stark.Felt, error) {
	if err := td.Validate(); err != nil {
		return stark.Felt{}, err
	}
	return td.StructHash(DomainType, td.Domain)
}

// MessageHash binds the message to account:
// h("StarkNet Message", domainHash, account, messageHash).
func (td *TypedData) MessageHash(account stark.Felt) (stark.Felt, error) {
	domainHash, err := td.DomainHash()
	if err != nil {
		return stark.Felt{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	structHash, err := td.StructHash(td.PrimaryType, td.Message)
	if err != nil {
		return stark.Felt{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return stark.HashOnElements(
		stark.MustFeltFromShortString(messagePrefix),
		domainHash,
		account,
		structHash,
	), nil
}

func (td *TypedData) encodeValue(typeName string, value any) (stark.Felt, error) {
	if _, ok := td.Types[typeName]; ok {
		obj, ok := value.(map[string]any)
		if !ok {
			return stark.Felt{}, fmt.Errorf("%w: expected object for %s, got %T", ErrInvalidValue, typeName, value)
		}
		return td.StructHash(typeName, obj)
	}

	if elemType, isArray := strings.CutSuffix(typeName, "*"); isArray {
		items, err := toSlice(value)
		if err != nil {
			return stark.Felt{}, err
		}
		encoded := make([]stark.Felt, len(items))
		for i, item := range items {
			if encoded[i], err = td.encodeValue(elemType, item); err != nil {
				return stark.Felt{}, fmt.Errorf("index %d: %w", i, err)
			}
		}
		return stark.HashOnElements(encoded...), nil
	}

	switch typeName {
	case "felt", "bool", "string", "shortstring", "ContractAddress", "ClassHash", "timestamp":
		return ToFelt(value)
	case "selector":
		if name, ok := value.(string); ok {
			if _, isInt := stark.ParseInteger(name); !isInt {
				return stark.Selector(name), nil
			}
		}
		return ToFelt(value)
	default:
		return stark.Felt{}, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
}

func toSlice(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, nil
	case []stark.Felt:
		items := make([]any, len(v))
		for i, f := range v {
			items[i] = f
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: expected array, got %T", ErrInvalidValue, value)
	}
}

// ToFelt converts a message value into a felt. Strings that parse as integers
// (0x hex or decimal) are taken numerically, any other string is packed as a
// short string, and booleans map to 1 and 0.
func ToFelt(value any) (stark.Felt, error) {
	switch v := value.(type) {
	case stark.Felt:
		return v, nil
	case *big.Int:
		return stark.FeltFromBigInt(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return stark.Felt{}, nil
		}
		if b, ok := stark.ParseInteger(v); ok {
			return stark.FeltFromBigInt(b)
		}
		return stark.FeltFromShortString(v)
	case json.Number:
		b, ok := stark.ParseInteger(v.String())
		if !ok {
			return stark.Felt{}, fmt.Errorf("%w: %s", ErrInvalidValue, v)
		}
		return stark.FeltFromBigInt(b)
	case bool:
		if v {
			return stark.FeltFromUint64(1), nil
		}
		return stark.Felt{}, nil
	case int:
		return stark.FeltFromBigInt(big.NewInt(int64(v)))
	case int64:
		return stark.FeltFromBigInt(big.NewInt(v))
	case uint64:
		return stark.FeltFromUint64(v), nil
	case float64:
		// Above 2^53 the decoder has already rounded the value.
		if v < 0 || v > maxExactFloat || v != math.Trunc(v) {
			return stark.Felt{}, fmt.Errorf("%w: %v", ErrInvalidValue, v)
		}
		b, _ := new(big.Float).SetFloat64(v).Int(nil)
		return stark.FeltFromBigInt(b)
	default:
		return stark.Felt{}, fmt.Errorf("%w: unsupported %T", ErrInvalidValue, value)
	}
}
