package precompiles

import (
	"math/big"

	"github.com/blocklayer/tinyevm/evmcrypto"
)

// --- ecrecover (0x01) ---

type ecrecover struct{}

func (c *ecrecover) RequiredGas(input []byte) uint64 {
	return 3000
}

func (c *ecrecover) Run(input []byte) ([]byte, error) {
	input = padRight(input, 128)

	hash := input[0:32]
	v := new(big.Int).SetBytes(input[32:64])
	r := input[64:96]
	s := input[96:128]

	if v.BitLen() > 8 {
		return nil, nil
	}
	vByte := byte(v.Uint64())
	if vByte != 27 && vByte != 28 {
		return nil, nil
	}

	if !evmcrypto.ValidateSignatureValues(vByte-27, r, s, true) {
		return nil, nil
	}

	sig := make([]byte, 65)
	copy(sig[0:32], r)
	copy(sig[32:64], s)
	sig[64] = vByte - 27

	pub, err := evmcrypto.Ecrecover(hash, sig)
	if err != nil {
		return nil, nil
	}

	addrHash := evmcrypto.Keccak256(pub[1:])

	result := make([]byte, 32)
	copy(result[12:], addrHash[12:])
	return result, nil
}
