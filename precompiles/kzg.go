package precompiles

import (
	"crypto/sha256"
	"errors"
	"math/big"
	"sync"

	goethkzg "github.com/crate-crypto/go-eth-kzg"
)

// --- kzgPointEvaluation (0x0a), EIP-4844 ---
//
// Grounded on the teacher's crypto/kzg_goeth_adapter.go, which wraps
// the same crate-crypto/go-eth-kzg context; the teacher gates that
// file behind a "goethkzg" build tag and otherwise leaves proof
// verification stubbed (core/vm/precompiles.go's kzgPointEvaluation
// only checks the commitment/hash binding, never the proof itself).
// This precompile always builds the real backend.

const pointEvaluationGas = 50000
const versionedHashVersionKZG = 0x01

var (
	fieldElementsPerBlob = big.NewInt(4096)
	blsModulus, _        = new(big.Int).SetString(
		"52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)
)

var (
	kzgCtx     *goethkzg.Context
	kzgCtxOnce sync.Once
	kzgCtxErr  error
)

func kzgContext() (*goethkzg.Context, error) {
	kzgCtxOnce.Do(func() {
		kzgCtx, kzgCtxErr = goethkzg.NewContext4096Secure()
	})
	return kzgCtx, kzgCtxErr
}

type kzgPointEvaluation struct{}

func (c *kzgPointEvaluation) RequiredGas(input []byte) uint64 {
	return pointEvaluationGas
}

func (c *kzgPointEvaluation) Run(input []byte) ([]byte, error) {
	if len(input) != 192 {
		return nil, errors.New("kzg: invalid input length")
	}

	versionedHash := input[:32]
	z := new(big.Int).SetBytes(input[32:64])
	y := new(big.Int).SetBytes(input[64:96])
	commitment := input[96:144]
	proof := input[144:192]

	if versionedHash[0] != versionedHashVersionKZG {
		return nil, errors.New("kzg: invalid versioned hash version")
	}
	if z.Cmp(blsModulus) >= 0 {
		return nil, errors.New("kzg: z is not a valid field element")
	}
	if y.Cmp(blsModulus) >= 0 {
		return nil, errors.New("kzg: y is not a valid field element")
	}

	commitHash := sha256.Sum256(commitment)
	commitHash[0] = versionedHashVersionKZG
	if !bytesEqual(versionedHash, commitHash[:]) {
		return nil, errors.New("kzg: commitment does not match versioned hash")
	}

	ctx, err := kzgContext()
	if err != nil {
		return nil, err
	}

	var comm goethkzg.KZGCommitment
	copy(comm[:], commitment)
	var pr goethkzg.KZGProof
	copy(pr[:], proof)
	var zBytes, yBytes [32]byte
	z.FillBytes(zBytes[:])
	y.FillBytes(yBytes[:])

	if err := ctx.VerifyKZGProof(comm, zBytes, yBytes, pr); err != nil {
		return nil, errors.New("kzg: proof verification failed")
	}

	result := make([]byte, 64)
	fieldBytes := fieldElementsPerBlob.Bytes()
	copy(result[32-len(fieldBytes):32], fieldBytes)
	modBytes := blsModulus.Bytes()
	copy(result[64-len(modBytes):64], modBytes)
	return result, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
