package img

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"veil/stegano/util"
)

const (
	ChannelsPerPixel = 4

	// the channels used for hiding, in the order bits are spread over them.
	// alpha (3) is never touched.
	RChannel = 0
	GChannel = 1
	BChannel = 2

	bitsPerPixel = 3
)

/*
 * PixelBuffer is a raw 8-bit RGBA view of a decoded carrier.
 * Pix holds Width*Height pixels, four bytes each, row-major with no padding.
 * Alpha is not premultiplied, so writing the buffer to a lossless format
 * and reading it back yields the same bytes.
 */
type PixelBuffer struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

func NewPixelBuffer(width, height uint32, pix []byte) (*PixelBuffer, error) {
	pb := &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    pix,
	}
	if err := pb.validate(); err != nil {
		return nil, err
	}
	return pb, nil
}

// validate checks the buffer shape. Buffers built as struct literals skip
// NewPixelBuffer, so every entry point that walks Pix calls it first.
func (pb *PixelBuffer) validate() error {
	if pb == nil {
		return fmt.Errorf("%w: nil buffer", ErrUnsupportedCarrier)
	}
	if pb.Width == 0 || pb.Height == 0 {
		return fmt.Errorf("%w: zero dimensions (%dx%d)", ErrUnsupportedCarrier, pb.Width, pb.Height)
	}
	want := uint64(pb.Width) * uint64(pb.Height) * ChannelsPerPixel
	if uint64(len(pb.Pix)) != want {
		return fmt.Errorf("%w: %dx%d image needs %d channel bytes, got %d",
			ErrUnsupportedCarrier, pb.Width, pb.Height, want, len(pb.Pix))
	}
	return nil
}

// FromImage copies an 8-bit image into a new buffer. Images with 16-bit
// channels are rejected rather than silently truncated.
func FromImage(src image.Image) (*PixelBuffer, error) {
	switch src.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return nil, fmt.Errorf("%w: only 8 bits per channel are supported", ErrUnsupportedCarrier)
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedCarrier)
	}
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	if n, ok := src.(*image.NRGBA); ok && n.Stride == width*ChannelsPerPixel {
		copy(rgba.Pix, n.Pix[n.PixOffset(bounds.Min.X, bounds.Min.Y):])
	} else {
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}
	return NewPixelBuffer(uint32(width), uint32(height), rgba.Pix)
}

// Image returns an image sharing the buffer's memory.
func (pb *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    pb.Pix,
		Stride: int(pb.Width) * ChannelsPerPixel,
		Rect:   image.Rect(0, 0, int(pb.Width), int(pb.Height)),
	}
}

func (pb *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(pb.Pix))
	copy(pix, pb.Pix)
	return &PixelBuffer{
		Width:  pb.Width,
		Height: pb.Height,
		Pix:    pix,
	}
}

// UsableBitCapacity is the number of bits the R, G and B channels can hold.
// The length header is not subtracted here.
func (pb *PixelBuffer) UsableBitCapacity() uint64 {
	return uint64(pb.Width) * uint64(pb.Height) * bitsPerPixel
}

func (pb *PixelBuffer) offset(bitPos uint64) (uint64, error) {
	if bitPos >= pb.UsableBitCapacity() {
		return 0, fmt.Errorf("%w: %d >= %d", ErrOutOfRange, bitPos, pb.UsableBitCapacity())
	}
	pixel := bitPos / bitsPerPixel
	channel := bitPos % bitsPerPixel
	off := pixel*ChannelsPerPixel + channel
	if off >= uint64(len(pb.Pix)) {
		return 0, fmt.Errorf("%w: channel byte %d past a %d byte buffer", ErrOutOfRange, off, len(pb.Pix))
	}
	return off, nil
}

func (pb *PixelBuffer) ReadBit(bitPos uint64) (uint8, error) {
	off, err := pb.offset(bitPos)
	if err != nil {
		return 0, err
	}
	return pb.Pix[off] & 1, nil
}

// WriteBit replaces the least significant bit of the addressed channel with
// the low bit of bit.
func (pb *PixelBuffer) WriteBit(bitPos uint64, bit uint8) error {
	off, err := pb.offset(bitPos)
	if err != nil {
		return err
	}
	pb.Pix[off] = (pb.Pix[off] & 0xfe) | (bit & 1)
	return nil
}

func (pb *PixelBuffer) readBits(start, n uint64) ([]uint8, error) {
	bits := make([]uint8, n)
	for i := range bits {
		b, err := pb.ReadBit(start + uint64(i))
		if err != nil {
			return nil, err
		}
		bits[i] = b
	}
	return bits, nil
}

// writeByte spreads b over the 8 bits starting at start, MSB first.
func (pb *PixelBuffer) writeByte(start uint64, b byte) error {
	for i := 0; i < 8; i++ {
		if err := pb.WriteBit(start+uint64(i), (b>>(7-i))&1); err != nil {
			return err
		}
	}
	return nil
}

func (pb *PixelBuffer) readByte(start uint64) (byte, error) {
	var bits [8]uint8
	for i := range bits {
		b, err := pb.ReadBit(start + uint64(i))
		if err != nil {
			return 0, err
		}
		bits[i] = b
	}
	return util.FromBin(bits[:]), nil
}
