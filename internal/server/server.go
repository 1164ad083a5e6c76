// Package server provides the steg HTTP API: encode, decode and capacity over multipart uploads.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zedseven/steg/v2"
	"github.com/zedseven/steg/v2/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server serves the API. It holds no state besides its configuration; every request is an
// independent call into the library.
type Server struct {
	cfg config.Config
	log *logrus.Logger
	mux *http.ServeMux
}

// New builds a Server. Requests use the options held by cfg, with the engine overridable per request.
func New(cfg config.Config, log *logrus.Logger) *Server {
	s := &Server{cfg: cfg, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /api/encode", s.handleEncode)
	s.mux.HandleFunc("POST /api/decode", s.handleDecode)
	s.mux.HandleFunc("POST /api/capacity", s.handleCapacity)
	s.mux.HandleFunc("GET /api/version", s.handleVersion)
	return s
}

// Handler returns the API handler, wrapped so every request gets an id and an access log line.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		s.mux.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"requestId": id,
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    rec.status,
			"took":      time.Since(start).String(),
		}).Info("Request served.")
	})
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("listen", s.cfg.Listen).Info("Serving the steg API.")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Handlers

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	upload, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	message := r.FormValue("message")
	if message == "" {
		s.writeError(w, &requestError{"message is required"})
		return
	}
	if upload.key == "" {
		s.writeError(w, &requestError{"key is required"})
		return
	}

	artifact, err := steg.Encode(upload.file, message, upload.key, upload.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", artifact.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.FileName(upload.file.Name)))
	w.Write(artifact.Data)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	upload, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if upload.key == "" {
		s.writeError(w, &requestError{"key is required"})
		return
	}

	message, err := steg.Decode(upload.file, upload.key, upload.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	upload, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	bits, err := steg.Capacity(upload.file, upload.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bits":            bits,
		"maxMessageBytes": steg.MaxMessageBytes(bits),
		"mediaType":       upload.file.MediaType,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": steg.Version()})
}

// Uploads

type upload struct {
	file *steg.File
	key  string
	opts *steg.Options
}

// readUpload parses the multipart form: the carrier in "file", and the optional "key" and "engine" fields.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	limit := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, &uploadTooLargeError{Limit: limit}
		}
		return nil, &requestError{fmt.Sprintf("parse form: %v", err)}
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, &requestError{"no file"}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &requestError{fmt.Sprintf("read file: %v", err)}
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = steg.DetectMediaType(header.Filename, data)
	}

	opts, err := s.cfg.Options()
	if err != nil {
		return nil, err
	}
	opts.Logger = s.log
	if name := r.FormValue("engine"); name != "" {
		if opts.Engine, err = steg.ParseEngine(name); err != nil {
			return nil, err
		}
	}

	return &upload{
		file: &steg.File{Name: header.Filename, MediaType: mediaType, Data: data},
		key:  r.FormValue("key"),
		opts: opts,
	}, nil
}

// Error types

type requestError struct {
	Reason string
}

func (e *requestError) Error() string {
	return e.Reason
}

type uploadTooLargeError struct {
	Limit int64
}

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("upload exceeds the limit of %d bytes", e.Limit)
}

// statusOf maps library and request errors onto HTTP status codes.
func statusOf(err error) int {
	var (
		unsupported *steg.UnsupportedMediaTypeError
		tooLarge    *steg.MessageTooLargeError
		notFound    *steg.NoMessageFoundError
		invalidKey  *steg.InvalidKeyError
		decodeErr   *steg.DecodeError
		encodeErr   *steg.EncodeError
		invalid     *steg.InvalidFormatError
		request     *requestError
		uploadSize  *uploadTooLargeError
	)
	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge), errors.As(err, &uploadSize):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalidKey):
		return http.StatusForbidden
	case errors.As(err, &decodeErr), errors.As(err, &encodeErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalid), errors.As(err, &request):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("Request failed.")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
