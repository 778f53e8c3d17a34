package local

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"veil/stegano/img"
	stutil "veil/stegano/util"
	"veil/util"
)

// in-memory part of a multipart form; larger files spill to disk
const formMemory = 8 << 20

func writeJsonResponse(w http.ResponseWriter, status int, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJsonResponse(w, status, Response{Ok: false, Message: message})
}

func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, img.ErrNoHiddenData):
		return http.StatusNotFound
	case errors.Is(err, img.ErrCorruptHeader),
		errors.Is(err, util.ErrDecompressedTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, img.ErrPayloadTooLarge),
		errors.Is(err, img.ErrUnsupportedCarrier),
		errors.Is(err, img.ErrLossyFormat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("bad request")

func (s *Server) fail(w http.ResponseWriter, r *http.Request, id string, err error) {
	status := statusFor(err)
	s.logger.LogError(fmt.Errorf("%s %s: %d: %w", id, r.URL.Path, status, err))
	if status == http.StatusInternalServerError {
		writeError(w, status, "Internal Server Error")
		return
	}
	writeError(w, status, err.Error())
}

func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// readUpload returns the content and file name of a multipart file field.
func readUpload(r *http.Request, field string) ([]byte, string, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: missing file field %q", errBadRequest, field)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func hasUpload(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > 0
}

func formBool(r *http.Request, field string, def bool) bool {
	v := r.FormValue(field)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// loadCarrier reads an uploaded image into a pixel buffer, refusing images
// over the configured pixel count before decoding them.
func (s *Server) loadCarrier(r *http.Request, field string) (*img.PixelBuffer, string, string, error) {
	data, name, err := readUpload(r, field)
	if err != nil {
		return nil, "", "", err
	}
	pb, format, err := img.LoadCarrierLimit(bytes.NewReader(data), s.sc.MaxPixels)
	if err != nil {
		return nil, "", "", err
	}
	return pb, format, name, nil
}

// secretPayload collects the bytes to hide from either a file or a message.
func secretPayload(r *http.Request) ([]byte, error) {
	if hasUpload(r, "secret") {
		data, _, err := readUpload(r, "secret")
		return data, err
	}
	if msg := r.FormValue("message"); msg != "" {
		return []byte(stutil.NormalizeMessage(msg)), nil
	}
	return nil, fmt.Errorf("%w: either a secret file or a message is required", errBadRequest)
}

func sendIndex(w http.ResponseWriter) {
	writeJsonResponse(w, http.StatusOK, IndexResponse{
		Message: "Steganography API",
		Endpoints: map[string]string{
			"/api/capacity": "POST - Check if a carrier can hold a secret",
			"/api/encode":   "POST - Hide a file or message in an image",
			"/api/decode":   "POST - Extract hidden data from an image",
			"/api/check":    "POST - Check if an image has hidden data",
		},
	})
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request, id string) {
	if err := parseForm(r); err != nil {
		s.fail(w, r, id, err)
		return
	}
	carrier, format, _, err := s.loadCarrier(r, "carrier")
	if err != nil {
		s.fail(w, r, id, err)
		return
	}

	compressed := false
	var size uint64
	switch {
	case hasUpload(r, "secret") || r.FormValue("message") != "":
		secret, err := secretPayload(r)
		if err != nil {
			s.fail(w, r, id, err)
			return
		}
		if formBool(r, "compress", s.stc.Compress) {
			status, data, err := util.Compress(secret)
			if err != nil {
				s.fail(w, r, id, err)
				return
			}
			secret, compressed = data, status == 1
		}
		size = uint64(len(secret))
	case r.FormValue("size") != "":
		size, err = strconv.ParseUint(r.FormValue("size"), 10, 64)
		if err != nil {
			s.fail(w, r, id, fmt.Errorf("%w: invalid size: %v", errBadRequest, err))
			return
		}
	}

	report := img.Analyze(carrier, size)
	var usage *float64
	if !math.IsInf(report.UsagePercent, 0) {
		usage = &report.UsagePercent
	}
	writeJsonResponse(w, http.StatusOK, CapacityResponse{
		CanEncode: report.CanEncode,
		CarrierInfo: CarrierInfo{
			Dimensions:    fmt.Sprintf("%dx%d", carrier.Width, carrier.Height),
			Format:        format,
			Channels:      img.ChannelsPerPixel,
			CapacityBytes: report.CarrierCapacityBytes,
			CapacityHuman: util.HumanSize(report.CarrierCapacityBytes),
		},
		SecretInfo: SecretInfo{
			SizeBytes:  size,
			SizeHuman:  util.HumanSize(size),
			Compressed: compressed,
		},
		Analysis: Analysis{
			BytesAvailable: report.BytesAvailable(),
			UsagePercent:   usage,
			ShortfallBytes: report.ShortfallBytes,
			Recommendation: report.Recommendation(),
		},
	})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request, id string) {
	if err := parseForm(r); err != nil {
		s.fail(w, r, id, err)
		return
	}
	carrier, format, name, err := s.loadCarrier(r, "carrier")
	if err != nil {
		s.fail(w, r, id, err)
		return
	}
	secret, err := secretPayload(r)
	if err != nil {
		s.fail(w, r, id, err)
		return
	}
	if formBool(r, "compress", s.stc.Compress) {
		if _, secret, err = util.Compress(secret); err != nil {
			s.fail(w, r, id, err)
			return
		}
	}

	if _, err = img.Encode(carrier, secret); err != nil {
		s.fail(w, r, id, err)
		return
	}
	preferred := r.FormValue("format")
	if preferred == "" {
		preferred = s.stc.OutputFormat
	}
	format = img.OutputFormat(format, preferred)

	buf := new(bytes.Buffer)
	if err = img.SaveCarrier(buf, carrier, format); err != nil {
		s.fail(w, r, id, err)
		return
	}

	outName := filepath.Base(util.OutputName(name, "steg_", format))
	w.Header().Set("Content-Type", img.ImageContentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": outName}))
	w.Header().Set("X-Hidden-Size", strconv.Itoa(len(secret)))
	w.Header().Set("X-Payload-Digest", util.Digest(secret))
	w.Write(buf.Bytes())
	s.logger.LogInfof("%s %s: hid %d bytes in %dx%d %s", id, r.URL.Path, len(secret), carrier.Width, carrier.Height, format)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request, id string) {
	if err := parseForm(r); err != nil {
		s.fail(w, r, id, err)
		return
	}
	carrier, _, _, err := s.loadCarrier(r, "steg")
	if err != nil {
		s.fail(w, r, id, err)
		return
	}
	payload, err := img.Decode(carrier)
	if err != nil {
		s.fail(w, r, id, err)
		return
	}
	if formBool(r, "decompress", s.stc.Compress) {
		if payload, err = ExpandPayload(payload, s.stc.MaxDecompressedSize); err != nil {
			s.fail(w, r, id, err)
			return
		}
	}

	filename := r.FormValue("filename")
	if filename == "" {
		filename = util.GenFilename("extracted", payload.Extension())
	} else if filepath.Ext(filename) == "" {
		filename += payload.Extension()
	}
	w.Header().Set("Content-Type", payload.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(filename)}))
	w.Header().Set("X-Payload-Kind", payload.Kind.String())
	w.Header().Set("X-Extracted-Size", strconv.Itoa(len(payload.Bytes)))
	w.Header().Set("X-Payload-Digest", util.Digest(payload.Bytes))
	w.Write(payload.Bytes)
	s.logger.LogInfof("%s %s: revealed %d bytes (%s)", id, r.URL.Path, len(payload.Bytes), payload.Kind)
}

// ExpandPayload decompresses a payload that was compressed before hiding and
// classifies the result again. The output may not grow past limit bytes.
func ExpandPayload(payload *img.ClassifiedPayload, limit int64) (*img.ClassifiedPayload, error) {
	if payload.Kind != img.KindBinary || !util.IsCompressed(payload.Bytes) {
		return payload, nil
	}
	data, err := util.DecompressLimit(payload.Bytes, limit)
	if err != nil {
		return nil, err
	}
	return img.Classify(data, img.FormatDetector{}), nil
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request, id string) {
	if err := parseForm(r); err != nil {
		s.fail(w, r, id, err)
		return
	}
	carrier, _, _, err := s.loadCarrier(r, "image")
	if err != nil {
		s.fail(w, r, id, err)
		return
	}

	info, err := img.Peek(carrier)
	resp := CheckResponse{
		HasHiddenData: err == nil,
		ImageDimensions: ImageDimensions{
			Width:    carrier.Width,
			Height:   carrier.Height,
			Channels: img.ChannelsPerPixel,
		},
		MaxCapacityBytes: info.MaxCapacity,
	}
	if err == nil {
		resp.HiddenDataSize = info.Length
	} else if !errors.Is(err, img.ErrNoHiddenData) && !errors.Is(err, img.ErrCorruptHeader) {
		s.fail(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, resp)
}
