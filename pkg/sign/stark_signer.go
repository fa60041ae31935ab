package sign

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/ecdsa"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"

	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

// Ensure our types implement the interfaces at compile time.
var _ Signer = (*StarkSigner)(nil)
var _ PublicKey = (*StarkPublicKey)(nil)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrHashOutOfRange    = errors.New("message hash must be below 2^251")
)

// maxSignAttempts bounds the retries for signatures outside the Cairo range.
// Each attempt fails with probability about 1/8.
const maxSignAttempts = 64

var (
	curveOrder = fr.Modulus()
	// r, w and the message hash must all be below 2^251 for the Cairo ECDSA check.
	ecdsaBound = new(big.Int).Lsh(big.NewInt(1), 251)
)

// StarkPublicKey implements the PublicKey interface for the Stark curve.
type StarkPublicKey struct {
	key ecdsa.PublicKey
}

// NewStarkPublicKey derives the public key of a private scalar.
func NewStarkPublicKey(privateKey *big.Int) StarkPublicKey {
	var p StarkPublicKey
	p.key.A.ScalarMultiplicationBase(privateKey)
	return p
}

// Felt returns the x coordinate, which is what Starknet accounts store as the signer key.
func (p StarkPublicKey) Felt() stark.Felt { return stark.FeltFromElement(&p.key.A.X) }

func (p StarkPublicKey) Bytes() []byte {
	b := p.key.A.X.Bytes()
	return b[:]
}

// Verify checks a Stark ECDSA signature with the range checks of the Cairo
// ECDSA builtin on top of the curve equation.
func (p StarkPublicKey) Verify(hash stark.Felt, sig Signature) bool {
	z := hash.BigInt()
	r := sig.R.BigInt()
	s := sig.S.BigInt()

	if z.Cmp(ecdsaBound) >= 0 {
		return false
	}
	if r.Sign() <= 0 || r.Cmp(ecdsaBound) >= 0 {
		return false
	}
	if s.Sign() <= 0 || s.Cmp(curveOrder) >= 0 {
		return false
	}
	if !inCairoRange(s) {
		return false
	}

	ok, err := p.key.Verify(signatureBytes(r, s), feltBytes(z), nil)
	return err == nil && ok
}

// StarkSigner is the Stark curve implementation of the Signer interface.
type StarkSigner struct {
	key       *ecdsa.PrivateKey
	publicKey StarkPublicKey
}

func (s *StarkSigner) PublicKey() PublicKey { return s.publicKey }

// Sign expects hash to already be a Starknet message or transaction hash.
// Nonces are randomized, so repeated calls yield different signatures that
// all verify. Signatures the Cairo builtin would refuse are drawn again.
func (s *StarkSigner) Sign(hash stark.Felt) (Signature, error) {
	z := hash.BigInt()
	if z.Cmp(ecdsaBound) >= 0 {
		return Signature{}, fmt.Errorf("%w: %s", ErrHashOutOfRange, hash)
	}

	// Below 2^251 the digest is used as is, without truncation.
	msg := feltBytes(z)
	for range maxSignAttempts {
		raw, err := s.key.Sign(msg, nil)
		if err != nil {
			return Signature{}, fmt.Errorf("failed to sign hash: %w", err)
		}
		var sig ecdsa.Signature
		if _, err := sig.SetBytes(raw); err != nil {
			return Signature{}, fmt.Errorf("failed to decode signature: %w", err)
		}

		r := new(big.Int).SetBytes(sig.R[:])
		sv := new(big.Int).SetBytes(sig.S[:])
		if r.Cmp(ecdsaBound) >= 0 || !inCairoRange(sv) {
			continue
		}

		rFelt, err := stark.FeltFromBigInt(r)
		if err != nil {
			return Signature{}, err
		}
		sFelt, err := stark.FeltFromBigInt(sv)
		if err != nil {
			return Signature{}, err
		}
		return Signature{R: rFelt, S: sFelt}, nil
	}
	return Signature{}, fmt.Errorf("no signature within the Cairo range after %d attempts", maxSignAttempts)
}

// inCairoRange reports whether w = s^-1 mod n is below 2^251.
func inCairoRange(s *big.Int) bool {
	w := new(big.Int).ModInverse(s, curveOrder)
	return w != nil && w.Cmp(ecdsaBound) < 0
}

func feltBytes(v *big.Int) []byte {
	return v.FillBytes(make([]byte, fr.Bytes))
}

func signatureBytes(r, s *big.Int) []byte {
	buf := make([]byte, 2*fr.Bytes)
	r.FillBytes(buf[:fr.Bytes])
	s.FillBytes(buf[fr.Bytes:])
	return buf
}

// NewStarkSigner creates a new signer from a hex-encoded private key. The 0x prefix is optional.
func NewStarkSigner(privateKeyHex string) (Signer, error) {
	signer, err := newStarkSigner(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func newStarkSigner(privateKeyHex string) (*StarkSigner, error) {
	scalar, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}
	publicKey := NewStarkPublicKey(scalar)

	// ecdsa.PrivateKey only loads from its public key || scalar encoding.
	buf := append(publicKey.key.Bytes(), feltBytes(scalar)...)
	key := new(ecdsa.PrivateKey)
	if _, err := key.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return &StarkSigner{key: key, publicKey: publicKey}, nil
}

// ParsePrivateKey parses a hex private key and checks it is a valid non-zero scalar.
func ParsePrivateKey(privateKeyHex string) (*big.Int, error) {
	raw := strings.TrimSpace(privateKeyHex)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if raw == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidPrivateKey)
	}
	key, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, fmt.Errorf("%w: not a hex number", ErrInvalidPrivateKey)
	}
	if key.Sign() <= 0 || key.Cmp(curveOrder) >= 0 {
		return nil, fmt.Errorf("%w: out of range", ErrInvalidPrivateKey)
	}
	return key, nil
}
