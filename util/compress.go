package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// MaxDecompressedSize is the default bound on what Decompress will produce.
const MaxDecompressedSize = 64 << 20

var ErrDecompressedTooLarge = errors.New("decompressed data exceeds the size limit")

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
)

func zstdEncoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	})
	return encoder
}

// Compress returns 1 and the compressed data if that is shorter,
// otherwise 0 and data itself.
func Compress(data []byte) (uint8, []byte, error) {
	if len(data) == 0 {
		return 0, data, nil
	}
	compressed := zstdEncoder().EncodeAll(data, nil)
	// check if we are able to decrease the total
	// size of data
	if len(compressed) >= len(data) {
		return 0, data, nil
	}
	return 1, compressed, nil
}

func Decompress(data []byte) ([]byte, error) {
	return DecompressLimit(data, MaxDecompressedSize)
}

// DecompressLimit decodes a zstd payload and fails with
// ErrDecompressedTooLarge as soon as the output would pass limit bytes.
// A limit of zero or less means MaxDecompressedSize.
func DecompressLimit(data []byte, limit int64) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	if limit <= 0 {
		limit = MaxDecompressedSize
	}
	// zstd windows are at least 1 KiB, so the decoder gets some headroom;
	// the output itself is cut at limit below
	mem := uint64(limit)
	if mem < 1<<20 {
		mem = 1 << 20
	}
	dec, err := zstd.NewReader(bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(mem))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out, err := io.ReadAll(io.LimitReader(dec, limit+1))
	switch {
	case errors.Is(err, zstd.ErrWindowSizeExceeded),
		errors.Is(err, zstd.ErrDecoderSizeExceeded),
		errors.Is(err, zstd.ErrFrameSizeExceeded):
		return nil, fmt.Errorf("%w: %v", ErrDecompressedTooLarge, err)
	case err != nil:
		return nil, err
	case int64(len(out)) > limit:
		return nil, fmt.Errorf("%w: more than %d bytes", ErrDecompressedTooLarge, limit)
	}
	return out, nil
}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}
