package starknet

import (
	"fmt"

	"github.com/snehendu098/ghost/snverify/pkg/sign"
	"github.com/snehendu098/ghost/snverify/pkg/stark"
	"github.com/snehendu098/ghost/snverify/pkg/typeddata"
)

// Account pairs an on-chain account address with the key that signs for it.
type Account struct {
	Address stark.Felt
	Signer  sign.Signer
}

// NewAccount parses address and binds signer to it.
func NewAccount(address string, signer sign.Signer) (*Account, error) {
	addr, err := stark.FeltFromString(address)
	if err != nil {
		return nil, fmt.Errorf("invalid account address: %w", err)
	}
	return &Account{Address: addr, Signer: signer}, nil
}

// MessageHash hashes td bound to this account.
func (a *Account) MessageHash(td *typeddata.TypedData) (stark.Felt, error) {
	return td.MessageHash(a.Address)
}

// SignMessage hashes td for this account and signs the result.
func (a *Account) SignMessage(td *typeddata.TypedData) (sign.Signature, error) {
	hash, err := a.MessageHash(td)
	if err != nil {
		return sign.Signature{}, err
	}
	sig, err := a.Signer.Sign(hash)
	if err != nil {
		return sign.Signature{}, fmt.Errorf("failed to sign message hash: %w", err)
	}
	return sig, nil
}

// VerifyMessage checks sig locally against the signer's public key.
func (a *Account) VerifyMessage(td *typeddata.TypedData, sig sign.Signature) (bool, error) {
	hash, err := a.MessageHash(td)
	if err != nil {
		return false, err
	}
	return a.Signer.PublicKey().Verify(hash, sig), nil
}
