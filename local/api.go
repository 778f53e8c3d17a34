package local

import (
	"net/http"

	"veil/config"
	"veil/util"
)

/*
 * Server is the local API. Every request that touches pixels first takes a
 * slot from workers, so at most MaxWorkers images are processed at a time.
 */
type Server struct {
	sc      *config.ServerConfiguration
	stc     *config.SteganoConfig
	logger  *util.Logger
	workers chan struct{}
}

func NewServer(conf *config.FullConfig, logger *util.Logger) *Server {
	n := conf.ServerConfig.MaxWorkers
	if n <= 0 {
		n = 1
	}
	return &Server{
		sc:      &conf.ServerConfig,
		stc:     &conf.StegConfig,
		logger:  logger,
		workers: make(chan struct{}, n),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/{$}", func(w http.ResponseWriter, r *http.Request) {
		sendIndex(w)
	})

	// how much a carrier can hold, and whether a given secret fits
	mux.HandleFunc("POST /api/capacity", s.withWorker(s.handleCapacity))

	// hide a file or a message, returns the stego image
	mux.HandleFunc("POST /api/encode", s.withWorker(s.handleEncode))

	// extract the hidden payload
	mux.HandleFunc("POST /api/decode", s.withWorker(s.handleDecode))

	// read only the header
	mux.HandleFunc("POST /api/check", s.withWorker(s.handleCheck))

	return mux
}

func (s *Server) withWorker(handler func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := util.GenID()
		select {
		case s.workers <- struct{}{}:
		case <-r.Context().Done():
			s.logger.LogWarning(id + " " + r.URL.Path + ": gave up waiting for a worker")
			writeError(w, http.StatusServiceUnavailable, "server busy, try again")
			return
		}
		defer func() { <-s.workers }()

		if s.sc.MaxUploadSize > 0 {
			if r.ContentLength > s.sc.MaxUploadSize {
				s.logger.LogWarning(id + " " + r.URL.Path + ": upload too large")
				writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, s.sc.MaxUploadSize)
		}
		handler(w, r, id)
	}
}

func RunApiServer(conf *config.FullConfig, logger *util.Logger) error {
	s := NewServer(conf, logger)
	logger.LogInfo("Listening on " + conf.ServerConfig.Address)
	return http.ListenAndServe(conf.ServerConfig.Address, s.Handler())
}
