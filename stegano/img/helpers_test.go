package img

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"math/rand"
	"runtime"
	"testing"
)

// makeTestImage builds a deterministic opaque carrier.
func makeTestImage(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	return m
}

func makeCarrier(t testing.TB, w, h int) *PixelBuffer {
	t.Helper()
	pb, err := FromImage(makeTestImage(w, h))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	return pb
}

// makeNoisyCarrier fills every channel, alpha included, with random bytes.
func makeNoisyCarrier(t testing.TB, w, h int, seed int64) *PixelBuffer {
	t.Helper()
	pix := make([]byte, w*h*ChannelsPerPixel)
	rand.New(rand.NewSource(seed)).Read(pix)
	pb, err := NewPixelBuffer(uint32(w), uint32(h), pix)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	return pb
}

func randomBytes(n int, seed int64) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

// pngDeclaring builds a small but well-formed PNG stream whose header claims
// w x h RGBA pixels. The image data is a short zlib stream, so a decoder
// that trusts the header allocates the full image before failing.
func pngDeclaring(t testing.TB, w, h uint32) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := func(typ string, data []byte) {
		binary.Write(buf, binary.BigEndian, uint32(len(data)))
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		buf.WriteString(typ)
		buf.Write(data)
		binary.Write(buf, binary.BigEndian, crc.Sum32())
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha
	chunk("IHDR", ihdr)

	idat := new(bytes.Buffer)
	zw := zlib.NewWriter(idat)
	zw.Write(make([]byte, 16))
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib: %v", err)
	}
	chunk("IDAT", idat.Bytes())
	chunk("IEND", nil)
	return buf.Bytes()
}

// allocatedBy reports how many bytes f allocated on the heap.
func allocatedBy(f func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	f()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}
