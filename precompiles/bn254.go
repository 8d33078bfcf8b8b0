package precompiles

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// BN254 add/mul/pairing (0x06/0x07/0x08, EIP-196/EIP-197). The teacher
// left these three stubbed behind ErrBN254NotImplemented with a
// comment that "actual BN254 point addition requires a dedicated
// crypto library", gnark-crypto, already an indirect dependency of
// the teacher's own module graph (pulled in transitively by
// go-eth-kzg), is exactly that library, so these are implemented for
// real here instead of carried forward as stubs.

var errBN254NotOnCurve = errors.New("bn254: point not on curve")
var errBN254InvalidInput = errors.New("bn254: invalid input length")
var errBN254FieldElementTooLarge = errors.New("bn254: coordinate exceeds field modulus")

// decodeFp parses a 32-byte big-endian field element, rejecting values
// at or above the field modulus the way the EIP specifies (a silently
// reduced value would accept encodings no honest prover would produce).
func decodeFp(b []byte) (fp.Element, error) {
	var z fp.Element
	v := new(big.Int).SetBytes(b)
	if v.Cmp(fp.Modulus()) >= 0 {
		return z, errBN254FieldElementTooLarge
	}
	z.SetBigInt(v)
	return z, nil
}

func decodeG1(b []byte) (*bn254.G1Affine, error) {
	x, err := decodeFp(b[0:32])
	if err != nil {
		return nil, err
	}
	y, err := decodeFp(b[32:64])
	if err != nil {
		return nil, err
	}
	p := &bn254.G1Affine{X: x, Y: y}
	if p.X.IsZero() && p.Y.IsZero() {
		return p, nil // point at infinity, represented as (0,0)
	}
	if !p.IsOnCurve() {
		return nil, errBN254NotOnCurve
	}
	return p, nil
}

func encodeG1(p *bn254.G1Affine) []byte {
	out := make([]byte, 64)
	xBytes := p.X.Bytes()
	yBytes := p.Y.Bytes()
	copy(out[0:32], xBytes[:])
	copy(out[32:64], yBytes[:])
	return out
}

func fieldExtElement(a0, a1 fp.Element) bn254.E2 {
	return bn254.E2{A0: a0, A1: a1}
}

func decodeG2(b []byte) (*bn254.G2Affine, error) {
	x1, err := decodeFp(b[0:32])
	if err != nil {
		return nil, err
	}
	x0, err := decodeFp(b[32:64])
	if err != nil {
		return nil, err
	}
	y1, err := decodeFp(b[64:96])
	if err != nil {
		return nil, err
	}
	y0, err := decodeFp(b[96:128])
	if err != nil {
		return nil, err
	}
	p := &bn254.G2Affine{
		X: fieldExtElement(x0, x1),
		Y: fieldExtElement(y0, y1),
	}
	if p.X.IsZero() && p.Y.IsZero() {
		return p, nil
	}
	if !p.IsOnCurve() {
		return nil, errBN254NotOnCurve
	}
	return p, nil
}

// --- bn254Add (0x06) ---

type bn254Add struct{}

func (c *bn254Add) RequiredGas(input []byte) uint64 {
	return 150
}

func (c *bn254Add) Run(input []byte) ([]byte, error) {
	input = padRight(input, 128)
	p0, err := decodeG1(input[0:64])
	if err != nil {
		return nil, err
	}
	p1, err := decodeG1(input[64:128])
	if err != nil {
		return nil, err
	}
	var r bn254.G1Affine
	r.Add(p0, p1)
	return encodeG1(&r), nil
}

// --- bn254ScalarMul (0x07) ---

type bn254ScalarMul struct{}

func (c *bn254ScalarMul) RequiredGas(input []byte) uint64 {
	return 6000
}

func (c *bn254ScalarMul) Run(input []byte) ([]byte, error) {
	input = padRight(input, 96)
	p0, err := decodeG1(input[0:64])
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).SetBytes(input[64:96])
	var r bn254.G1Affine
	r.ScalarMultiplication(p0, scalar)
	return encodeG1(&r), nil
}

// --- bn254Pairing (0x08) ---

type bn254Pairing struct{}

func (c *bn254Pairing) RequiredGas(input []byte) uint64 {
	k := uint64(len(input)) / 192
	return 45000 + 34000*k
}

func (c *bn254Pairing) Run(input []byte) ([]byte, error) {
	if len(input)%192 != 0 {
		return nil, errBN254InvalidInput
	}
	k := len(input) / 192
	g1s := make([]bn254.G1Affine, 0, k)
	g2s := make([]bn254.G2Affine, 0, k)
	for i := 0; i < k; i++ {
		chunk := input[i*192 : (i+1)*192]
		p1, err := decodeG1(chunk[0:64])
		if err != nil {
			return nil, err
		}
		p2, err := decodeG2(chunk[64:192])
		if err != nil {
			return nil, err
		}
		g1s = append(g1s, *p1)
		g2s = append(g2s, *p2)
	}

	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return nil, err
	}

	result := make([]byte, 32)
	if ok {
		result[31] = 1
	}
	return result, nil
}
