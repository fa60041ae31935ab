// Package sign provides blockchain-agnostic cryptographic signing interfaces
// and their Stark curve implementation.
//
// The primary interfaces are:
//
//   - Signer: Core interface for cryptographic signing operations
//   - PublicKey: Interface for public key operations, including verification
//
// Signers operate on field-element hashes rather than raw bytes: on Starknet
// the message hash (see package typeddata) is already a felt, and the account
// contract checks the signature against exactly that value.
//
// Private key material is never exposed through the interfaces.
//
// Usage
//
//	signer, err := sign.NewStarkSigner(privateKeyHex)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hash := stark.Pedersen(a, b)
//	signature, err := signer.Sign(hash)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Public key:", signer.PublicKey().Felt())
//	fmt.Println("Valid:", signer.PublicKey().Verify(hash, signature))
package sign
