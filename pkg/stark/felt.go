package stark

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MaxShortStringLength is the number of ASCII characters that fit in a single felt.
const MaxShortStringLength = 31

var (
	ErrInvalidFelt        = errors.New("invalid felt")
	ErrFeltOverflow       = errors.New("value exceeds the field prime")
	ErrShortStringTooLong = fmt.Errorf("short string longer than %d characters", MaxShortStringLength)
	ErrShortStringASCII   = errors.New("short string contains non-ASCII characters")
)

// Felt is a Starknet field element: an integer modulo 2^251 + 17*2^192 + 1.
// The zero value is the element 0.
type Felt struct {
	e fp.Element
}

// FeltFromUint64 returns the felt holding v.
func FeltFromUint64(v uint64) Felt {
	var f Felt
	f.e.SetUint64(v)
	return f
}

// FeltFromElement wraps an already reduced field element.
func FeltFromElement(e *fp.Element) Felt {
	return Felt{e: *e}
}

// FeltFromBigInt converts b into a felt. Negative values and values not below
// the field prime are rejected rather than silently reduced.
func FeltFromBigInt(b *big.Int) (Felt, error) {
	if b == nil {
		return Felt{}, fmt.Errorf("%w: nil integer", ErrInvalidFelt)
	}
	if b.Sign() < 0 {
		return Felt{}, fmt.Errorf("%w: negative value %s", ErrInvalidFelt, b)
	}
	if b.Cmp(fp.Modulus()) >= 0 {
		return Felt{}, fmt.Errorf("%w: %s", ErrFeltOverflow, hexutil.EncodeBig(b))
	}
	var f Felt
	f.e.SetBigInt(b)
	return f, nil
}

// FeltFromString parses a 0x-prefixed hexadecimal or a plain decimal string.
func FeltFromString(s string) (Felt, error) {
	b, ok := ParseInteger(s)
	if !ok {
		return Felt{}, fmt.Errorf("%w: %q", ErrInvalidFelt, s)
	}
	return FeltFromBigInt(b)
}

// MustFeltFromString is like FeltFromString but panics on error.
// Intended for constants and tests.
func MustFeltFromString(s string) Felt {
	f, err := FeltFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseInteger reports whether s is an integer literal in the forms accepted by
// Starknet tooling (0x hex or decimal) and returns its value.
func ParseInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
		if s == "" {
			return nil, false
		}
	}
	b, ok := new(big.Int).SetString(s, base)
	if !ok || b.Sign() < 0 {
		return nil, false
	}
	return b, true
}

// FeltFromShortString packs an ASCII string of at most 31 characters into a felt,
// first character in the most significant byte.
func FeltFromShortString(s string) (Felt, error) {
	if len(s) > MaxShortStringLength {
		return Felt{}, fmt.Errorf("%w: %q", ErrShortStringTooLong, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return Felt{}, fmt.Errorf("%w: %q", ErrShortStringASCII, s)
		}
	}
	return FeltFromBigInt(new(big.Int).SetBytes([]byte(s)))
}

// MustFeltFromShortString is like FeltFromShortString but panics on error.
func MustFeltFromShortString(s string) Felt {
	f, err := FeltFromShortString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Element returns a copy of the underlying field element.
func (f Felt) Element() fp.Element {
	return f.e
}

// BigInt returns the canonical integer value of f.
func (f Felt) BigInt() *big.Int {
	return f.e.BigInt(new(big.Int))
}

// Uint64 returns the value of f and whether it fits in 64 bits.
func (f Felt) Uint64() (uint64, bool) {
	b := f.BigInt()
	return b.Uint64(), b.IsUint64()
}

func (f Felt) IsZero() bool {
	return f.e.IsZero()
}

func (f Felt) Equal(other Felt) bool {
	return f.e.Equal(&other.e)
}

// String returns the minimal 0x-prefixed lowercase hex form, "0x0" for zero.
func (f Felt) String() string {
	return hexutil.EncodeBig(f.BigInt())
}

// ShortString decodes f as a Cairo short string. Leading zero bytes are dropped.
func (f Felt) ShortString() string {
	return string(f.BigInt().Bytes())
}

// IsPrintableShortString reports whether f decodes to a non-empty printable ASCII string.
func (f Felt) IsPrintableShortString() bool {
	raw := f.BigInt().Bytes()
	if len(raw) == 0 {
		return false
	}
	for _, c := range raw {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the felt as a hex string.
func (f Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts hex or decimal strings as well as bare JSON numbers.
func (f *Felt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFelt, string(data))
		}
		s = n.String()
	}
	parsed, err := FeltFromString(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FeltsToStrings renders every felt in hex form.
func FeltsToStrings(felts []Felt) []string {
	strs := make([]string, len(felts))
	for i, f := range felts {
		strs[i] = f.String()
	}
	return strs
}

// FeltsFromStrings parses a list of hex or decimal strings.
func FeltsFromStrings(strs []string) ([]Felt, error) {
	felts := make([]Felt, len(strs))
	for i, s := range strs {
		f, err := FeltFromString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse felt %d (%s): %w", i, s, err)
		}
		felts[i] = f
	}
	return felts, nil
}
