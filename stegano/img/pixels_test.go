package img

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPixelBuffer(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		pixLen        int
		wantErr       error
	}{
		{name: "ok", width: 10, height: 10, pixLen: 400},
		{name: "zero width", width: 0, height: 10, pixLen: 0, wantErr: ErrUnsupportedCarrier},
		{name: "zero height", width: 10, height: 0, pixLen: 0, wantErr: ErrUnsupportedCarrier},
		{name: "three channels", width: 10, height: 10, pixLen: 300, wantErr: ErrUnsupportedCarrier},
		{name: "too long", width: 2, height: 2, pixLen: 17, wantErr: ErrUnsupportedCarrier},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pb, err := NewPixelBuffer(tc.width, tc.height, make([]byte, tc.pixLen))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, pb)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(tc.width)*uint64(tc.height)*3, pb.UsableBitCapacity())
		})
	}
}

func TestBitAddressing(t *testing.T) {
	pb, err := NewPixelBuffer(2, 1, make([]byte, 8))
	require.NoError(t, err)

	// bits 0..5 map to R,G,B of pixel 0 then R,G,B of pixel 1
	wantOffsets := []int{0, 1, 2, 4, 5, 6}
	for bitPos, off := range wantOffsets {
		require.NoError(t, pb.WriteBit(uint64(bitPos), 1))
		assert.Equal(t, byte(1), pb.Pix[off], "bit %d", bitPos)
	}
	assert.Equal(t, byte(0), pb.Pix[3], "alpha of pixel 0 touched")
	assert.Equal(t, byte(0), pb.Pix[7], "alpha of pixel 1 touched")
}

func TestWriteBitKeepsUpperBits(t *testing.T) {
	pb, err := NewPixelBuffer(1, 1, []byte{0xaa, 0x55, 0xff, 0x80})
	require.NoError(t, err)

	require.NoError(t, pb.WriteBit(0, 1))
	require.NoError(t, pb.WriteBit(1, 0))
	require.NoError(t, pb.WriteBit(2, 0))
	// only the low bit of the argument counts
	require.NoError(t, pb.WriteBit(2, 3))

	assert.Equal(t, []byte{0xab, 0x54, 0xff, 0x80}, pb.Pix)

	for bitPos, want := range []uint8{1, 0, 1} {
		got, err := pb.ReadBit(uint64(bitPos))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBitOutOfRange(t *testing.T) {
	pb := makeCarrier(t, 2, 2)
	_, err := pb.ReadBit(12)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.ErrorIs(t, pb.WriteBit(12, 1), ErrOutOfRange)
	_, err = pb.ReadBit(11)
	assert.NoError(t, err)
}

func TestFromImage(t *testing.T) {
	src := makeTestImage(7, 5)
	pb, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), pb.Width)
	assert.Equal(t, uint32(5), pb.Height)
	assert.Equal(t, src.Pix, pb.Pix)

	// the buffer is a copy
	pb.Pix[0] ^= 0xff
	assert.NotEqual(t, src.Pix[0], pb.Pix[0])

	// and Image shares memory with the buffer
	m := pb.Image()
	assert.Equal(t, pb.Pix[0], m.NRGBAAt(0, 0).R)
}

func TestFromImageSubImage(t *testing.T) {
	src := makeTestImage(8, 8)
	sub := src.SubImage(image.Rect(2, 3, 6, 7)).(*image.NRGBA)
	pb, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), pb.Width)
	assert.Equal(t, uint32(4), pb.Height)
	assert.Equal(t, src.NRGBAAt(2, 3), pb.Image().NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(5, 6), pb.Image().NRGBAAt(3, 3))
}

func TestFromImageConvertsModels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	gray.SetGray(1, 1, color.Gray{Y: 200})
	pb, err := FromImage(gray)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, pb.Image().NRGBAAt(1, 1))
}

func TestFromImageRejects16Bit(t *testing.T) {
	_, err := FromImage(image.NewNRGBA64(image.Rect(0, 0, 4, 4)))
	assert.ErrorIs(t, err, ErrUnsupportedCarrier)

	_, err = FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrUnsupportedCarrier)
}

func TestClone(t *testing.T) {
	pb := makeCarrier(t, 3, 3)
	c := pb.Clone()
	assert.Equal(t, pb.Pix, c.Pix)
	c.Pix[0] ^= 1
	assert.NotEqual(t, pb.Pix[0], c.Pix[0])
}
