package img

import (
	"bytes"
	"image"
	"net/http"
	"unicode/utf8"

	// decoders the default image detector accepts
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// longest payload, in characters, still reported as text
	TextLimit = 10000
)

type PayloadKind int

const (
	KindBinary PayloadKind = iota
	KindText
	KindImage
)

func (k PayloadKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "binary"
}

// ClassifiedPayload is a recovered payload together with what it looks like.
// Bytes always holds the raw payload, whatever the kind.
type ClassifiedPayload struct {
	Kind   PayloadKind
	Bytes  []byte
	Text   string // KindText only
	Format string // KindImage only, e.g. "png"
}

// ImageDetector reports whether data is an image file it can decode.
type ImageDetector interface {
	Accept(data []byte) (format string, ok bool)
}

// DefaultPayloadPixels bounds the declared size of a recovered image payload
// the default detector is willing to decode.
const DefaultPayloadPixels = 1 << 24

// FormatDetector accepts anything one of the registered image decoders
// can fully decode. The header is checked against MaxPixels first, so a
// hidden file announcing huge dimensions is never allocated.
type FormatDetector struct {
	MaxPixels uint64 // zero means DefaultPayloadPixels
}

func (d FormatDetector) Accept(data []byte) (string, bool) {
	if _, err := checkDimensions(data, d.MaxPixels, DefaultPayloadPixels); err != nil {
		return "", false
	}
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	return format, true
}

// DetectorFunc adapts a plain function to ImageDetector.
type DetectorFunc func(data []byte) (string, bool)

func (f DetectorFunc) Accept(data []byte) (string, bool) {
	return f(data)
}

// Classify runs the text check, then the image detector, and falls back to
// binary. It never fails.
func Classify(data []byte, detector ImageDetector) *ClassifiedPayload {
	if text, ok := asText(data); ok {
		return &ClassifiedPayload{Kind: KindText, Bytes: data, Text: text}
	}
	if detector != nil {
		if format, ok := detector.Accept(data); ok {
			return &ClassifiedPayload{Kind: KindImage, Bytes: data, Format: format}
		}
	}
	return &ClassifiedPayload{Kind: KindBinary, Bytes: data}
}

func asText(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	count := 0
	for _, r := range string(data) {
		if !isTextRune(r) {
			return "", false
		}
		count++
		if count >= TextLimit {
			return "", false
		}
	}
	return string(data), true
}

func isTextRune(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return true
	}
	return r >= 0x20 && r <= 0x7e
}

// ContentType is the MIME type to serve the payload with.
func (p *ClassifiedPayload) ContentType() string {
	switch p.Kind {
	case KindText:
		return "text/plain; charset=utf-8"
	case KindImage:
		return ImageContentType(p.Format)
	}
	if bytes.HasPrefix(p.Bytes, zipMagic) {
		return "application/zip"
	}
	return http.DetectContentType(p.Bytes)
}

func ImageContentType(format string) string {
	format = normalizeFormat(format)
	if ct, ok := imageContentTypes[format]; ok {
		return ct
	}
	return "image/" + format
}

// Extension is a file name extension, with the dot, matching the payload.
func (p *ClassifiedPayload) Extension() string {
	switch p.Kind {
	case KindText:
		return ".txt"
	case KindImage:
		if p.Format == "jpeg" {
			return ".jpg"
		}
		return "." + p.Format
	}
	if bytes.HasPrefix(p.Bytes, zipMagic) {
		return ".zip"
	}
	return ".bin"
}

var (
	zipMagic = []byte("PK\x03\x04")

	imageContentTypes = map[string]string{
		"png":  "image/png",
		"jpeg": "image/jpeg",
		"gif":  "image/gif",
		"bmp":  "image/bmp",
		"tiff": "image/tiff",
		"webp": "image/webp",
	}
)
