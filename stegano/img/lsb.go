package img

import (
	"fmt"

	"veil/stegano/util"
)

/*
 * Layout of the hidden data over the R, G, B channels:
 *   bits [0, 64)              payload length in bytes, MSB first
 *   bits [64, 64 + length*8)  payload bytes, MSB first
 * bit i lives in the least significant bit of channel i%3 of pixel i/3.
 */

// Encode writes payload into the carrier's LSBs and returns the carrier.
// The size check happens before any byte changes, so on error the carrier
// is untouched.
func Encode(carrier *PixelBuffer, payload []byte) (*PixelBuffer, error) {
	if err := carrier.validate(); err != nil {
		return nil, err
	}
	length := uint64(len(payload))
	capacity := carrier.UsableBitCapacity()
	if length > (1<<64-1-util.HeaderBits)/8 || util.HeaderBits+length*8 > capacity {
		return nil, fmt.Errorf("%w: need %d bits, carrier has %d (max %d bytes)",
			ErrPayloadTooLarge, util.HeaderBits+length*8, capacity, CapacityBytes(carrier))
	}

	for bitPos, bit := range util.LengthToBits(length) {
		if err := carrier.WriteBit(uint64(bitPos), bit); err != nil {
			return nil, err
		}
	}
	// payload bytes go straight into the pixels, one at a time
	for i, b := range payload {
		if err := carrier.writeByte(util.HeaderBits+uint64(i)*8, b); err != nil {
			return nil, err
		}
	}
	return carrier, nil
}

type HeaderInfo struct {
	Length      uint64 // payload length announced by the header
	MaxCapacity uint64 // largest payload the carrier could hold
}

// Peek reads and validates the length header without extracting the payload.
func Peek(carrier *PixelBuffer) (HeaderInfo, error) {
	if err := carrier.validate(); err != nil {
		return HeaderInfo{}, err
	}
	info := HeaderInfo{MaxCapacity: CapacityBytes(carrier)}
	if carrier.UsableBitCapacity() < util.HeaderBits {
		return info, fmt.Errorf("%w: carrier too small to hold a header", ErrNoHiddenData)
	}

	bits, err := carrier.readBits(0, util.HeaderBits)
	if err != nil {
		return info, err
	}
	length, err := util.BitsToLength(bits)
	if err != nil {
		return info, err
	}
	info.Length = length

	if length == 0 {
		return info, ErrNoHiddenData
	}
	if length > info.MaxCapacity {
		return info, fmt.Errorf("%w: header announces %d bytes, carrier holds at most %d",
			ErrCorruptHeader, length, info.MaxCapacity)
	}
	return info, nil
}

// Decoder extracts hidden payloads. Detector decides whether a non-text payload
// is an image; a nil Detector classifies every non-text payload as binary.
type Decoder struct {
	Detector ImageDetector
}

var DefaultDecoder = &Decoder{Detector: FormatDetector{}}

func Decode(carrier *PixelBuffer) (*ClassifiedPayload, error) {
	return DefaultDecoder.Decode(carrier)
}

// Extract returns the raw hidden bytes. The carrier is only read.
func (d *Decoder) Extract(carrier *PixelBuffer) ([]byte, error) {
	info, err := Peek(carrier)
	if err != nil {
		return nil, err
	}
	data := make([]byte, info.Length)
	for i := range data {
		if data[i], err = carrier.readByte(util.HeaderBits + uint64(i)*8); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (d *Decoder) Decode(carrier *PixelBuffer) (*ClassifiedPayload, error) {
	data, err := d.Extract(carrier)
	if err != nil {
		return nil, err
	}
	return Classify(data, d.Detector), nil
}
