package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehendu098/ghost/snverify/pkg/log"
	"github.com/snehendu098/ghost/snverify/pkg/sign"
	"github.com/snehendu098/ghost/snverify/pkg/stark"
	"github.com/snehendu098/ghost/snverify/pkg/starknet"
	"github.com/snehendu098/ghost/snverify/pkg/starknet/starknettest"
)

const (
	testPrivateKey = "0x4a3fb1c28d3e6e5ff6bb42e7c8fe1b4a0c0a7a2f9f7c3d1e6b5a4c3d2e1f0a9"
	testAddress    = "0x5f7cd1fd465baff2ba9d2d1501ad0a2eb5337d9a885be319366b5205a414fdd"
)

// newAccountNode starts a node serving a Cairo 1 account whose
// is_valid_signature checks signatures against testPrivateKey.
func newAccountNode(t *testing.T) *starknettest.Node {
	t.Helper()
	key, err := sign.ParsePrivateKey(testPrivateKey)
	require.NoError(t, err)
	pub := sign.NewStarkPublicKey(key)

	node := starknettest.NewNode()
	t.Cleanup(node.Close)
	node.Result("starknet_getClassAt", starknettest.SierraAccountClass())
	node.Handle("starknet_call", func(params []json.RawMessage) (any, *starknettest.Error) {
		var call starknet.FunctionCall
		if err := json.Unmarshal(params[0], &call); err != nil {
			return nil, &starknettest.Error{Code: -32602, Message: err.Error()}
		}
		if len(call.Calldata) != 4 {
			return nil, &starknettest.Error{Code: starknet.CodeContractError, Message: "Contract error", Data: "bad calldata"}
		}
		sig := sign.Signature{R: call.Calldata[2], S: call.Calldata[3]}
		if pub.Verify(call.Calldata[0], sig) {
			return []string{starknet.ValidatedValue.String()}, nil
		}
		return []string{"0x0"}, nil
	})
	return node
}

func newTestAccount(t *testing.T) *starknet.Account {
	t.Helper()
	signer, err := sign.NewStarkSigner(testPrivateKey)
	require.NoError(t, err)
	account, err := starknet.NewAccount(testAddress, signer)
	require.NoError(t, err)
	return account
}

func newTestVerifier(t *testing.T, node *starknettest.Node) (*Verifier, *Metrics, *bytes.Buffer) {
	t.Helper()
	metrics := NewMetrics()
	provider, err := starknet.NewProvider(context.Background(), node.URL, starknet.WithObserver(metrics.ObserveRPC))
	require.NoError(t, err)
	t.Cleanup(provider.Close)

	out := &bytes.Buffer{}
	return NewVerifier(newTestAccount(t), provider, DefaultTypedData(), metrics, out), metrics, out
}

func outputLines(out *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestDefaultTypedData(t *testing.T) {
	td := DefaultTypedData()

	encoded, err := td.EncodeType(td.PrimaryType)
	require.NoError(t, err)
	assert.Equal(t, "SendMessage(address:felt,message:felt)", encoded)

	domainHash, err := td.DomainHash()
	require.NoError(t, err)
	assert.False(t, domainHash.IsZero())

	a, err := td.MessageHash(stark.MustFeltFromString(testAddress))
	require.NoError(t, err)
	b, err := td.MessageHash(stark.MustFeltFromString("0x1"))
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
}

func TestVerifierRun(t *testing.T) {
	t.Run("Valid signature", func(t *testing.T) {
		node := newAccountNode(t)
		v, metrics, out := newTestVerifier(t, node)
		recorder := log.NewRecorder()

		require.NoError(t, v.Run(log.SetContextLogger(context.Background(), recorder)))

		expectedHash, err := DefaultTypedData().MessageHash(stark.MustFeltFromString(testAddress))
		require.NoError(t, err)

		lines := outputLines(out)
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], `Signature: {"r":"0x`), lines[0])
		assert.Equal(t, "Message Hash: "+expectedHash.String(), lines[1])
		assert.Equal(t, "Signature is: VALID", lines[2])
		assert.Equal(t, []string{"starknet_getClassAt", "starknet_call"}, node.Methods())

		entry, ok := recorder.Find(log.LevelInfo, "signature validated")
		require.True(t, ok)
		assert.Equal(t, "verifier", entry.Name)
		assert.Contains(t, entry.KeysAndValues, "run_id")

		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SignaturesTotal))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Validations.WithLabelValues("valid")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RPCRequests.WithLabelValues("starknet_getClassAt", "success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RPCRequests.WithLabelValues("starknet_call", "success")))
	})

	t.Run("Signed hash goes on chain", func(t *testing.T) {
		node := newAccountNode(t)
		v, _, _ := newTestVerifier(t, node)
		require.NoError(t, v.Run(context.Background()))

		var call starknet.FunctionCall
		require.NoError(t, json.Unmarshal(node.Requests()[1].Params[0], &call))
		expectedHash, err := DefaultTypedData().MessageHash(stark.MustFeltFromString(testAddress))
		require.NoError(t, err)
		assert.True(t, call.Calldata[0].Equal(expectedHash))
		assert.True(t, call.ContractAddress.Equal(stark.MustFeltFromString(testAddress)))
	})

	t.Run("ABI fetch fails", func(t *testing.T) {
		node := newAccountNode(t)
		node.Fail("starknet_getClassAt", http.StatusServiceUnavailable)
		v, metrics, out := newTestVerifier(t, node)

		err := v.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, []string{"starknet_getClassAt"}, node.Methods())
		assert.Len(t, outputLines(out), 2)
		assert.NotContains(t, out.String(), "Error:")
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RPCRequests.WithLabelValues("starknet_getClassAt", "error")))
	})

	t.Run("Account not deployed", func(t *testing.T) {
		node := newAccountNode(t)
		node.Handle("starknet_getClassAt", func([]json.RawMessage) (any, *starknettest.Error) {
			return nil, &starknettest.Error{Code: starknet.CodeContractNotFound, Message: "Contract not found"}
		})
		v, _, _ := newTestVerifier(t, node)

		err := v.Run(context.Background())
		assert.ErrorIs(t, err, starknet.ErrContractNotFound)
	})

	t.Run("Validation call fails", func(t *testing.T) {
		node := newAccountNode(t)
		node.Fail("starknet_call", http.StatusServiceUnavailable)
		v, metrics, out := newTestVerifier(t, node)
		recorder := log.NewRecorder()

		require.NoError(t, v.Run(log.SetContextLogger(context.Background(), recorder)))

		lines := outputLines(out)
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[2], "Error: "), lines[2])
		_, ok := recorder.Find(log.LevelError, "signature validation failed")
		assert.True(t, ok)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Validations.WithLabelValues("error")))
	})

	t.Run("Signature rejected", func(t *testing.T) {
		node := newAccountNode(t)
		node.Result("starknet_call", []string{"0x0"})
		v, metrics, out := newTestVerifier(t, node)

		require.NoError(t, v.Run(context.Background()))
		lines := outputLines(out)
		require.Len(t, lines, 3)
		assert.Equal(t, "Error: signature rejected by account: returned 0x0", lines[2])
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Validations.WithLabelValues("rejected")))
	})

	t.Run("Signer fails", func(t *testing.T) {
		node := newAccountNode(t)
		v, _, out := newTestVerifier(t, node)
		signer := sign.NewMockSigner("key")
		signer.Err = assert.AnError
		v.account.Signer = signer

		err := v.Run(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, out.String())
		assert.Empty(t, node.Requests())
	})
}
