package img

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const DefaultOutputFormat = "png"

// formats that keep every channel byte intact
var losslessFormats = map[string]bool{
	"png":  true,
	"bmp":  true,
	"tiff": true,
}

func IsLossless(format string) bool {
	return losslessFormats[normalizeFormat(format)]
}

func normalizeFormat(format string) string {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}

// DefaultMaxPixels bounds the size of a carrier decoded by LoadCarrier.
const DefaultMaxPixels = 1 << 26

// LoadCarrier decodes an image file into a pixel buffer. Any registered
// format is accepted as input, lossy ones included: the hidden data only has
// to survive the output format.
func LoadCarrier(r io.Reader) (*PixelBuffer, string, error) {
	return LoadCarrierLimit(r, DefaultMaxPixels)
}

// LoadCarrierLimit is LoadCarrier with an explicit bound on the declared
// pixel count, checked before any pixel memory is allocated. Zero means
// DefaultMaxPixels.
func LoadCarrierLimit(r io.Reader, maxPixels uint64) (*PixelBuffer, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if _, err = checkDimensions(data, maxPixels, DefaultMaxPixels); err != nil {
		return nil, "", err
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedCarrier, err)
	}
	pb, err := adoptImage(src)
	if err != nil {
		return nil, format, err
	}
	return pb, format, nil
}

// checkDimensions reads only the image header and rejects images whose
// declared size is over maxPixels, or over def when maxPixels is zero.
func checkDimensions(data []byte, maxPixels, def uint64) (string, error) {
	if maxPixels == 0 {
		maxPixels = def
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedCarrier, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return format, fmt.Errorf("%w: zero dimensions (%dx%d)", ErrUnsupportedCarrier, cfg.Width, cfg.Height)
	}
	if pixels := uint64(cfg.Width) * uint64(cfg.Height); pixels > maxPixels {
		return format, fmt.Errorf("%w: %dx%d %s is over the %d pixel limit",
			ErrUnsupportedCarrier, cfg.Width, cfg.Height, format, maxPixels)
	}
	return format, nil
}

// adoptImage wraps a freshly decoded NRGBA image without copying it.
func adoptImage(src image.Image) (*PixelBuffer, error) {
	n, ok := src.(*image.NRGBA)
	if !ok || n.Rect.Min != (image.Point{}) || n.Stride != n.Rect.Dx()*ChannelsPerPixel {
		return FromImage(src)
	}
	w, h := n.Rect.Dx(), n.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedCarrier)
	}
	return NewPixelBuffer(uint32(w), uint32(h), n.Pix[:n.Stride*h])
}

// SaveCarrier writes the buffer in one of the lossless formats.
func SaveCarrier(w io.Writer, pb *PixelBuffer, format string) error {
	if err := pb.validate(); err != nil {
		return err
	}
	m := pb.Image()
	switch normalizeFormat(format) {
	case "png":
		return png.Encode(w, m)
	case "bmp":
		return bmp.Encode(w, m)
	case "tiff":
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrLossyFormat, format)
}

// OutputFormat picks the format a stego image is written in: the input
// format when it is lossless, then the preferred one, then png.
func OutputFormat(inputFormat, preferred string) string {
	if IsLossless(inputFormat) {
		return normalizeFormat(inputFormat)
	}
	if IsLossless(preferred) {
		return normalizeFormat(preferred)
	}
	return DefaultOutputFormat
}

func encodeCarrier(pb *PixelBuffer, format string) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := SaveCarrier(buf, pb, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
