package img

import (
	"errors"

	"veil/stegano/util"
)

var (
	// bit address beyond the carrier; a programming error
	ErrOutOfRange = errors.New("bit position out of range")

	ErrPayloadTooLarge = errors.New("carrier image not big enough to hold all the data")

	ErrMisalignedBitCount = util.ErrMisalignedBitCount

	ErrNoHiddenData = errors.New("no hidden data found in image")

	// the length header points past the end of the carrier. This is also what
	// an image that never carried data usually looks like.
	ErrCorruptHeader = errors.New("hidden data header is corrupt")

	ErrUnsupportedCarrier = errors.New("unsupported carrier image")

	ErrLossyFormat = errors.New("output format would destroy hidden data")
)
