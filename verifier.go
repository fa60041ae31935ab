package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/snehendu098/ghost/snverify/pkg/log"
	"github.com/snehendu098/ghost/snverify/pkg/sign"
	"github.com/snehendu098/ghost/snverify/pkg/stark"
	"github.com/snehendu098/ghost/snverify/pkg/starknet"
	"github.com/snehendu098/ghost/snverify/pkg/typeddata"
)

// DefaultTypedData returns the SendMessage structure signed when no
// --typed-data file is given.
func DefaultTypedData() *typeddata.TypedData {
	td, err := typeddata.New(
		typeddata.Types{
			typeddata.DomainType: {
				{Name: "name", Type: "felt"},
				{Name: "version", Type: "felt"},
				{Name: "chainId", Type: "felt"},
			},
			"SendMessage": {
				{Name: "address", Type: "felt"},
				{Name: "message", Type: "felt"},
			},
		},
		"SendMessage",
		typeddata.NewDomain("MessageContract", "1", stark.MustFeltFromShortString("SN_GOERLI")),
		map[string]any{
			"address": "0x7cffe72748da43594c5924129b4f18bffe643270a96b8760a6f2e2db49d9732",
			"message": "Hello, Vitalik!",
		},
	)
	if err != nil {
		panic(err)
	}
	return td
}

// Verifier signs typed data for an account and has the account contract
// check the result.
type Verifier struct {
	account   *starknet.Account
	reader    starknet.Reader
	typedData *typeddata.TypedData
	metrics   *Metrics
	out       io.Writer
}

func NewVerifier(account *starknet.Account, reader starknet.Reader, td *typeddata.TypedData, metrics *Metrics, out io.Writer) *Verifier {
	return &Verifier{
		account:   account,
		reader:    reader,
		typedData: td,
		metrics:   metrics,
		out:       out,
	}
}

// Sign signs the typed data and computes its message hash.
func (v *Verifier) Sign() (sign.Signature, stark.Felt, error) {
	sig, err := v.account.SignMessage(v.typedData)
	if err != nil {
		return sign.Signature{}, stark.Felt{}, fmt.Errorf("failed to sign message: %w", err)
	}
	v.metrics.SignaturesTotal.Inc()

	hash, err := v.account.MessageHash(v.typedData)
	if err != nil {
		return sign.Signature{}, stark.Felt{}, fmt.Errorf("failed to compute message hash: %w", err)
	}
	return sig, hash, nil
}

// Run signs, prints the signature and hash, fetches the account ABI and asks
// the account to validate the signature. A failed validation call is printed
// and logged but does not fail the run.
func (v *Verifier) Run(ctx context.Context) error {
	logger := log.FromContext(ctx).WithName("verifier").WithKV("run_id", uuid.NewString())
	logger.Info("signing message", "account", v.account.Address, "primary_type", v.typedData.PrimaryType)

	sig, hash, err := v.Sign()
	if err != nil {
		return err
	}
	fmt.Fprintf(v.out, "Signature: %s\n", sig)
	fmt.Fprintf(v.out, "Message Hash: %s\n", hash)

	contract, err := starknet.ContractAt(ctx, v.reader, v.account.Address)
	if err != nil {
		return err
	}
	logger.Debug("account class fetched", "entries", len(contract.ABI()))

	res, err := contract.IsValidSignature(ctx, hash, sig)
	v.metrics.ObserveValidation(err)
	if err != nil {
		logger.Error("signature validation failed", "error", err)
		fmt.Fprintf(v.out, "Error: %v\n", err)
		return nil
	}

	logger.Info("signature validated", "status", res.Status)
	fmt.Fprintf(v.out, "Signature is: %s\n", res.Status)
	return nil
}
