package stark

import (
	"math/big"

	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	"github.com/ethereum/go-ethereum/crypto"
)

var mask250 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// Pedersen returns the Starknet Pedersen hash of the pair (a, b).
func Pedersen(a, b Felt) Felt {
	h := pedersenhash.Pedersen(&a.e, &b.e)
	return Felt{e: h}
}

// HashOnElements folds elems with Pedersen starting from zero and finally hashes
// in the element count, i.e. h(h(h(h(0, e0), e1), ...), len).
func HashOnElements(elems ...Felt) Felt {
	var acc Felt
	for _, e := range elems {
		acc = Pedersen(acc, e)
	}
	return Pedersen(acc, FeltFromUint64(uint64(len(elems))))
}

// Keccak is starknet_keccak: the Keccak-256 digest of data truncated to its low 250 bits.
func Keccak(data []byte) Felt {
	b := new(big.Int).SetBytes(crypto.Keccak256(data))
	b.And(b, mask250)

	var f Felt
	f.e.SetBigInt(b)
	return f
}

// Selector returns the entry point selector for a contract function name.
func Selector(name string) Felt {
	if name == "__default__" || name == "__l1_default__" {
		return Felt{}
	}
	return Keccak([]byte(name))
}
