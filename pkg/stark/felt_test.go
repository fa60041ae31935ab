package stark

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeltFromString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  error
	}{
		{name: "hex", input: "0x1a", expected: "0x1a"},
		{name: "upper hex prefix", input: "0XFF", expected: "0xff"},
		{name: "leading zeros", input: "0x0007", expected: "0x7"},
		{name: "decimal", input: "255", expected: "0xff"},
		{name: "zero", input: "0", expected: "0x0"},
		{name: "surrounding space", input: " 0x10 ", expected: "0x10"},
		{name: "empty", input: "", wantErr: ErrInvalidFelt},
		{name: "prefix only", input: "0x", wantErr: ErrInvalidFelt},
		{name: "not a number", input: "hello", wantErr: ErrInvalidFelt},
		{name: "negative", input: "-1", wantErr: ErrInvalidFelt},
		{name: "field prime", input: fp.Modulus().String(), wantErr: ErrFeltOverflow},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := FeltFromString(test.input)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, f.String())
		})
	}
}

func TestFeltFromBigInt(t *testing.T) {
	maxFelt := new(big.Int).Sub(fp.Modulus(), big.NewInt(1))
	f, err := FeltFromBigInt(maxFelt)
	require.NoError(t, err)
	assert.Equal(t, 0, maxFelt.Cmp(f.BigInt()))

	_, err = FeltFromBigInt(nil)
	assert.ErrorIs(t, err, ErrInvalidFelt)
}

func TestShortString(t *testing.T) {
	t.Run("Encode", func(t *testing.T) {
		f, err := FeltFromShortString("SN_GOERLI")
		require.NoError(t, err)
		assert.Equal(t, "0x534e5f474f45524c49", f.String())

		f, err = FeltFromShortString("VALID")
		require.NoError(t, err)
		assert.Equal(t, "0x56414c4944", f.String())

		f, err = FeltFromShortString("")
		require.NoError(t, err)
		assert.True(t, f.IsZero())
	})

	t.Run("Decode", func(t *testing.T) {
		assert.Equal(t, "VALID", MustFeltFromString("0x56414c4944").ShortString())
		assert.Equal(t, "Hello, Vitalik!", MustFeltFromShortString("Hello, Vitalik!").ShortString())
		assert.True(t, MustFeltFromString("0x56414c4944").IsPrintableShortString())
		assert.False(t, FeltFromUint64(1).IsPrintableShortString())
		assert.False(t, Felt{}.IsPrintableShortString())
	})

	t.Run("Limits", func(t *testing.T) {
		_, err := FeltFromShortString("this string is definitely too long")
		assert.ErrorIs(t, err, ErrShortStringTooLong)

		_, err = FeltFromShortString("héllo")
		assert.ErrorIs(t, err, ErrShortStringASCII)

		_, err = FeltFromShortString("0123456789012345678901234567890")
		assert.NoError(t, err)
	})
}

func TestFeltJSON(t *testing.T) {
	f := MustFeltFromString("0xabc")

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `"0xabc"`, string(data))

	var decoded Felt
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, f.Equal(decoded))

	require.NoError(t, json.Unmarshal([]byte(`2748`), &decoded))
	assert.True(t, f.Equal(decoded))

	assert.Error(t, json.Unmarshal([]byte(`{}`), &decoded))
}

func TestFeltsStrings(t *testing.T) {
	felts, err := FeltsFromStrings([]string{"0x1", "2", "0x56414c4944"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0x1", "0x2", "0x56414c4944"}, FeltsToStrings(felts))

	_, err = FeltsFromStrings([]string{"0x1", "nope"})
	assert.ErrorIs(t, err, ErrInvalidFelt)
}
