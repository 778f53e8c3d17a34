package util

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToBinFromBin(t *testing.T) {
	for x := 0; x < 256; x++ {
		bits := ToBin(byte(x))
		if len(bits) != 8 {
			t.Fatalf("ToBin(%d) returned %d bits", x, len(bits))
		}
		if got := FromBin(bits); got != byte(x) {
			t.Errorf("FromBin(ToBin(%d)) = %d", x, got)
		}
	}
}

func TestBytesToBitsOrder(t *testing.T) {
	got := BytesToBits([]byte{0x80, 0x01, 0xa5})
	want := []uint8{
		1, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 1,
		1, 0, 1, 0, 0, 1, 0, 1,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected bit order (-want +got):\n%s", d)
	}
}

func TestBitsToBytes(t *testing.T) {
	tests := [][]byte{
		{},
		[]byte("Hello world!"),
		bytes.Repeat([]byte{0xff, 0x00, 0x5a}, 100),
	}
	for _, data := range tests {
		dec, err := BitsToBytes(BytesToBits(data))
		if err != nil {
			t.Fatalf("BitsToBytes: %v", err)
		}
		if !bytes.Equal(dec, data) {
			t.Errorf("bit conversion spoiled the data. %v != %v", data, dec)
		}
	}
}

func TestBitsToBytesMisaligned(t *testing.T) {
	for _, n := range []int{1, 7, 9, 15} {
		_, err := BitsToBytes(make([]uint8, n))
		if !errors.Is(err, ErrMisalignedBitCount) {
			t.Errorf("%d bits: expected ErrMisalignedBitCount, got %v", n, err)
		}
	}
}

func TestLengthHeader(t *testing.T) {
	for _, n := range []uint64{0, 1, 2, 29, 255, 256, 1 << 32, 1<<64 - 1} {
		bits := LengthToBits(n)
		if len(bits) != HeaderBits {
			t.Fatalf("LengthToBits(%d) returned %d bits", n, len(bits))
		}
		got, err := BitsToLength(bits)
		if err != nil {
			t.Fatalf("BitsToLength: %v", err)
		}
		if got != n {
			t.Errorf("length header round trip: %d != %d", got, n)
		}
	}

	// MSB first: the value 1 sets only the last bit
	bits := LengthToBits(1)
	if bits[63] != 1 || bytes.Count(bits, []byte{1}) != 1 {
		t.Errorf("LengthToBits(1) = %v", bits)
	}
}

func TestBitsToLengthWrongWidth(t *testing.T) {
	if _, err := BitsToLength(make([]uint8, 63)); !errors.Is(err, ErrMisalignedBitCount) {
		t.Errorf("expected ErrMisalignedBitCount, got %v", err)
	}
}

func TestNormalizeMessage(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune
	got := NormalizeMessage("cafe\u0301\r\nbar")
	if got != "caf\u00e9\nbar" {
		t.Errorf("NormalizeMessage = %q", got)
	}
}
