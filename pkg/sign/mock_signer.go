// Package sign provides mock implementations for testing signature operations.
package sign

import (
	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

var _ Signer = (*MockSigner)(nil)

// MockSigner is a mock implementation of the Signer interface for testing purposes.
// It produces predictable signatures: R is the signed hash and S is the key ID.
// When Err is set, Sign returns it instead.
type MockSigner struct {
	publicKey *MockPublicKey
	Err       error
}

// NewMockSigner creates a new MockSigner with the given ID.
// The ID is packed as a short string into the underlying mock public key.
func NewMockSigner(id string) *MockSigner {
	return &MockSigner{publicKey: NewMockPublicKey(id)}
}

// Sign generates a mock signature embedding the hash and the signer's key.
func (m *MockSigner) Sign(hash stark.Felt) (Signature, error) {
	if m.Err != nil {
		return Signature{}, m.Err
	}
	return Signature{R: hash, S: m.publicKey.Felt()}, nil
}

// PublicKey returns the mock public key associated with this signer.
func (m *MockSigner) PublicKey() PublicKey {
	return m.publicKey
}

var _ PublicKey = (*MockPublicKey)(nil)

// MockPublicKey is a mock implementation of the PublicKey interface for testing.
type MockPublicKey struct {
	id stark.Felt
}

// NewMockPublicKey creates a new MockPublicKey with the given ID.
// IDs longer than a short string collapse to zero.
func NewMockPublicKey(id string) *MockPublicKey {
	f, err := stark.FeltFromShortString(id)
	if err != nil {
		return &MockPublicKey{}
	}
	return &MockPublicKey{id: f}
}

// Felt returns the ID packed as a short string.
func (m *MockPublicKey) Felt() stark.Felt {
	return m.id
}

// Bytes returns the ID bytes.
func (m *MockPublicKey) Bytes() []byte {
	return m.id.BigInt().Bytes()
}

// Verify accepts exactly the signatures MockSigner produces for this key.
func (m *MockPublicKey) Verify(hash stark.Felt, sig Signature) bool {
	return sig.R.Equal(hash) && sig.S.Equal(m.id)
}
