package img

import (
	"fmt"
	"math"

	"veil/stegano/util"
)

type CapacityReport struct {
	CarrierCapacityBytes uint64
	PayloadSizeBytes     uint64
	CanEncode            bool
	UsagePercent         float64 // may exceed 100; +Inf for a carrier with no room at all
	ShortfallBytes       uint64
}

// CapacityBytes is the largest payload the carrier can hold once the length
// header has been written.
func CapacityBytes(carrier *PixelBuffer) uint64 {
	bits := carrier.UsableBitCapacity()
	if bits < util.HeaderBits {
		return 0
	}
	return (bits - util.HeaderBits) / 8
}

// Analyze checks a hypothetical payload size against the carrier. It only
// reads the carrier's dimensions.
func Analyze(carrier *PixelBuffer, payloadSizeBytes uint64) CapacityReport {
	capacity := CapacityBytes(carrier)
	report := CapacityReport{
		CarrierCapacityBytes: capacity,
		PayloadSizeBytes:     payloadSizeBytes,
		CanEncode:            payloadSizeBytes <= capacity,
	}
	if payloadSizeBytes > capacity {
		report.ShortfallBytes = payloadSizeBytes - capacity
	}

	switch {
	case capacity > 0:
		usage := float64(payloadSizeBytes) / float64(capacity) * 100
		report.UsagePercent = math.Round(usage*100) / 100
	case payloadSizeBytes > 0:
		report.UsagePercent = math.Inf(1)
	}
	return report
}

func (r CapacityReport) BytesAvailable() uint64 {
	if !r.CanEncode {
		return 0
	}
	return r.CarrierCapacityBytes - r.PayloadSizeBytes
}

func (r CapacityReport) Recommendation() string {
	if r.CanEncode {
		return "Encoding possible"
	}
	return fmt.Sprintf("Carrier too small. Need %d more bytes of capacity", r.ShortfallBytes)
}
