package util

import (
	"errors"
	"fmt"
)

const (
	// width of the length prefix written in front of every payload
	HeaderBits = 64
)

var ErrMisalignedBitCount = errors.New("bit count is not a multiple of 8")

/*
 * transform data from/to binary form.
 * bits are stored one per byte (0 or 1), most significant bit first.
 */
func ToBin(x byte) []uint8 {
	result := make([]uint8, 8)
	for i := 0; i < 8; i++ {
		result[i] = (x >> (7 - i)) & 1
	}
	return result
}

func FromBin(x []uint8) byte {
	result := byte(0)
	for i := 0; i < 8; i++ {
		result = result<<1 | (x[i] & 1)
	}
	return result
}

func BytesToBits(data []byte) []uint8 {
	res := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		res = append(res, ToBin(b)...)
	}
	return res
}

func BitsToBytes(bits []uint8) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrMisalignedBitCount, len(bits))
	}
	result := make([]byte, len(bits)/8)
	for i := range result {
		result[i] = FromBin(bits[i*8 : i*8+8])
	}
	return result, nil
}

// LengthToBits encodes n as exactly HeaderBits bits, MSB first.
func LengthToBits(n uint64) []uint8 {
	res := make([]uint8, HeaderBits)
	for i := 0; i < HeaderBits; i++ {
		res[i] = uint8(n>>(HeaderBits-1-i)) & 1
	}
	return res
}

func BitsToLength(bits []uint8) (uint64, error) {
	if len(bits) != HeaderBits {
		return 0, fmt.Errorf("%w: length header needs %d bits, got %d",
			ErrMisalignedBitCount, HeaderBits, len(bits))
	}
	var n uint64
	for _, b := range bits {
		n = n<<1 | uint64(b&1)
	}
	return n, nil
}
