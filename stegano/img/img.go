package img

import (
	"bytes"
)

// Hide decodes carrierFile, embeds data and re-encodes the result. The output
// format is chosen by OutputFormat and returned with the image bytes.
func Hide(carrierFile, data []byte, preferred string) ([]byte, string, error) {
	carrier, format, err := LoadCarrier(bytes.NewReader(carrierFile))
	if err != nil {
		return nil, "", err
	}
	if _, err = Encode(carrier, data); err != nil {
		return nil, "", err
	}
	format = OutputFormat(format, preferred)
	out, err := encodeCarrier(carrier, format)
	if err != nil {
		return nil, "", err
	}
	return out, format, nil
}

func Reveal(carrierFile []byte) (*ClassifiedPayload, error) {
	carrier, _, err := LoadCarrier(bytes.NewReader(carrierFile))
	if err != nil {
		return nil, err
	}
	return Decode(carrier)
}
