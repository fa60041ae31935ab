package sign

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

// Signer is an interface for a blockchain-agnostic signer over field-element hashes.
type Signer interface {
	PublicKey() PublicKey                    // Public key associated with this signer.
	Sign(hash stark.Felt) (Signature, error) // Sign generates a signature for the given hash.
}

// PublicKey is an interface for a blockchain-agnostic public key.
type PublicKey interface {
	// Felt returns the on-chain representation of the key.
	Felt() stark.Felt
	// Bytes returns the big-endian encoding of Felt.
	Bytes() []byte
	// Verify reports whether sig is a valid signature of hash under this key.
	Verify(hash stark.Felt, sig Signature) bool
}

var ErrMalformedSignature = errors.New("malformed signature")

// Signature is an ECDSA signature as the (r, s) pair Starknet accounts expect.
type Signature struct {
	R stark.Felt `json:"r"`
	S stark.Felt `json:"s"`
}

// Felts returns the signature in calldata order.
func (s Signature) Felts() []stark.Felt {
	return []stark.Felt{s.R, s.S}
}

// String implements the fmt.Stringer interface
func (s Signature) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("{r: %s, s: %s}", s.R, s.S)
	}
	return string(data)
}

// SignatureFromFelts builds a Signature from its calldata form.
func SignatureFromFelts(felts []stark.Felt) (Signature, error) {
	if len(felts) != 2 {
		return Signature{}, fmt.Errorf("%w: got %d elements, want 2", ErrMalformedSignature, len(felts))
	}
	return Signature{R: felts[0], S: felts[1]}, nil
}

// SignatureFromStrings parses the hex form produced by Felts/FeltsToStrings.
func SignatureFromStrings(strs []string) (Signature, error) {
	felts, err := stark.FeltsFromStrings(strs)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}
	return SignatureFromFelts(felts)
}
