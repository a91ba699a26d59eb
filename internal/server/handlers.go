package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maauso/vid2gif-api/internal/convert"
	"github.com/maauso/vid2gif-api/internal/formdata"
	"github.com/maauso/vid2gif-api/internal/media"
	"github.com/maauso/vid2gif-api/internal/preset"
)

// DefaultMaxUploadBytes caps the buffered request body when no limit is
// configured. The parser requires the whole body in memory, so this bound is
// also the memory bound per request.
const DefaultMaxUploadBytes = 512 << 20 // 512 MiB

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service        *convert.Service
	logger         *slog.Logger
	maxUploadBytes int64
	defaultQuality string
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithMaxUploadBytes overrides the upload size cap.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// WithDefaultQuality sets the preset used when an upload omits the quality
// field. Values outside the recognized presets are ignored.
func WithDefaultQuality(quality string) HandlerOption {
	return func(h *Handlers) {
		if preset.IsValid(quality) {
			h.defaultQuality = quality
		}
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *convert.Service, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:        service,
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
		defaultQuality: formdata.DefaultQuality,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Convert handles POST /convert requests. The multipart body is buffered in
// full before parsing; the parser contract requires it. On success the GIF
// bytes are returned inline, or, with ?push_to_s3=true, delivered to S3 and
// answered with the object URL.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit), "UPLOAD_TOO_LARGE")
			return
		}
		h.logger.Warn("failed to read request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "could not read request body", "BODY_READ_FAILED")
		return
	}

	form, err := formdata.Parse(r.Header.Get("Content-Type"), body, h.logger)
	if err != nil {
		// The only request-level parse failure; anything recoverable was
		// already skipped inside the parser.
		h.logger.Warn("multipart parse failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "request is not multipart/form-data with a boundary", "MISSING_BOUNDARY")
		return
	}

	if !form.HasVideo {
		writeError(w, http.StatusBadRequest, formdata.ErrNoVideoField.Error(), "NO_VIDEO_FIELD")
		return
	}

	quality := form.Quality
	if !form.HasQuality {
		quality = h.defaultQuality
	} else if !preset.IsValid(quality) {
		h.logger.Warn("unrecognized quality, using balanced preset",
			slog.String("quality", quality),
		)
	}

	out, err := h.service.Convert(r.Context(), convert.Input{
		Video:    form.Video,
		Quality:  quality,
		PushToS3: r.URL.Query().Get("push_to_s3") == "true",
	})
	if err != nil {
		h.writeConvertError(w, err)
		return
	}

	if out.URL != "" {
		writeJSON(w, http.StatusOK, ConvertResponse{
			ID:     out.Conversion.ID,
			Status: string(out.Conversion.GetStatus()),
			URL:    out.URL,
		})
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Conversion.ID+".gif"))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.GIF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.GIF); err != nil {
		h.logger.Warn("failed to write GIF response",
			slog.String("conversion_id", out.Conversion.ID),
			slog.String("error", err.Error()),
		)
	}
}

// writeConvertError maps pipeline failures to HTTP responses. A transcoder
// failure surfaces the process's stderr so clients can see what ffmpeg
// rejected; everything else is an opaque server error.
func (h *Handlers) writeConvertError(w http.ResponseWriter, err error) {
	var ffErr *media.FFmpegError
	if errors.As(err, &ffErr) {
		h.logger.Error("transcode failed",
			slog.String("stderr", ffErr.Stderr),
		)
		writeError(w, http.StatusInternalServerError, ffErr.Error(), "TRANSCODE_FAILED")
		return
	}

	h.logger.Error("conversion failed",
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "conversion failed", "CONVERSION_FAILED")
}

// GetConversion handles GET /conversions/{id} requests.
func (h *Handlers) GetConversion(w http.ResponseWriter, r *http.Request) {
	convID := r.PathValue("id")
	if convID == "" {
		writeError(w, http.StatusBadRequest, "conversion ID is required", "MISSING_CONVERSION_ID")
		return
	}

	found, err := h.service.Get(r.Context(), convID)
	if err != nil {
		if errors.Is(err, convert.ErrConversionNotFound) {
			writeError(w, http.StatusNotFound, "conversion not found", "CONVERSION_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get conversion",
			slog.String("conversion_id", convID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get conversion", "CONVERSION_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, ConversionResponse{
		ID:                found.ID,
		Status:            string(found.Status),
		Quality:           found.Quality,
		InputBytes:        found.InputBytes,
		OutputBytes:       found.OutputBytes,
		SourceDurationSec: found.SourceDuration,
		Error:             found.Error,
		URL:               found.OutputURL,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
