package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maauso/vid2gif-api/internal/convert"
	"github.com/maauso/vid2gif-api/internal/media"
	"github.com/maauso/vid2gif-api/internal/preset"
	"github.com/maauso/vid2gif-api/internal/storage"
)

// mockConverter implements media.Converter for testing.
type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) Convert(ctx context.Context, src, dst string, p preset.Params) error {
	args := m.Called(ctx, src, dst, p)
	return args.Error(0)
}

func (m *mockConverter) Probe(ctx context.Context, path string) (float64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(float64), args.Error(1)
}

const testBoundary = "----goTestBoundaryHTTP"

// multipartBody encodes form fields the way a browser would.
func multipartBody(fields [][2][]byte) ([]byte, string) {
	var b bytes.Buffer
	for _, f := range fields {
		fmt.Fprintf(&b, "--%s\r\n", testBoundary)
		fmt.Fprintf(&b, "Content-Disposition: form-data; name=%q\r\n\r\n", f[0])
		b.Write(f[1])
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", testBoundary)
	return b.Bytes(), "multipart/form-data; boundary=" + testBoundary
}

func newTestRouter(t *testing.T, opts ...HandlerOption) (http.Handler, *mockConverter, convert.Repository) {
	t.Helper()
	repo := convert.NewMemoryRepository()
	converter := &mockConverter{}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := convert.NewService(repo, converter, store, logger)
	handlers := NewHandlers(svc, logger, opts...)
	return NewRouter(handlers, logger, DefaultConfig()), converter, repo
}

// produceGIF makes the mock Convert call write fake output where ffmpeg would.
func produceGIF(t *testing.T, data []byte) func(mock.Arguments) {
	t.Helper()
	return func(args mock.Arguments) {
		require.NoError(t, os.WriteFile(args.String(2), data, 0600))
	}
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestConvert(t *testing.T) {
	router, converter, _ := newTestRouter(t)

	gif := []byte("GIF89a pretend animation")
	converter.On("Probe", mock.Anything, mock.Anything).Return(1.0, nil)
	converter.On("Convert", mock.Anything, mock.Anything, mock.Anything, preset.Resolve("fast")).
		Run(produceGIF(t, gif)).Return(nil)

	body, contentType := multipartBody([][2][]byte{
		{[]byte("quality"), []byte("fast")},
		{[]byte("video"), []byte("raw video bytes")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".gif")
	assert.Equal(t, gif, rec.Body.Bytes())

	converter.AssertExpectations(t)
}

func TestConvert_DefaultQuality(t *testing.T) {
	router, converter, _ := newTestRouter(t)

	converter.On("Probe", mock.Anything, mock.Anything).Return(1.0, nil)
	converter.On("Convert", mock.Anything, mock.Anything, mock.Anything, preset.Resolve(preset.QualityBalanced)).
		Run(produceGIF(t, []byte("GIF89a"))).Return(nil)

	body, contentType := multipartBody([][2][]byte{
		{[]byte("video"), []byte("raw video bytes")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	converter.AssertExpectations(t)
}

func TestConvert_ConfiguredDefaultQuality(t *testing.T) {
	router, converter, _ := newTestRouter(t, WithDefaultQuality(preset.QualityHigh))

	converter.On("Probe", mock.Anything, mock.Anything).Return(1.0, nil)
	converter.On("Convert", mock.Anything, mock.Anything, mock.Anything, preset.Resolve(preset.QualityHigh)).
		Run(produceGIF(t, []byte("GIF89a"))).Return(nil)

	body, contentType := multipartBody([][2][]byte{
		{[]byte("video"), []byte("raw video bytes")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	converter.AssertExpectations(t)
}

func TestConvert_ExplicitQualityBeatsConfiguredDefault(t *testing.T) {
	router, converter, _ := newTestRouter(t, WithDefaultQuality(preset.QualityHigh))

	converter.On("Probe", mock.Anything, mock.Anything).Return(1.0, nil)
	converter.On("Convert", mock.Anything, mock.Anything, mock.Anything, preset.Resolve(preset.QualityFast)).
		Run(produceGIF(t, []byte("GIF89a"))).Return(nil)

	body, contentType := multipartBody([][2][]byte{
		{[]byte("quality"), []byte("fast")},
		{[]byte("video"), []byte("raw video bytes")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	converter.AssertExpectations(t)
}

func TestConvert_UnrecognizedQuality(t *testing.T) {
	router, converter, _ := newTestRouter(t)

	converter.On("Probe", mock.Anything, mock.Anything).Return(1.0, nil)
	converter.On("Convert", mock.Anything, mock.Anything, mock.Anything, preset.Resolve(preset.QualityBalanced)).
		Run(produceGIF(t, []byte("GIF89a"))).Return(nil)

	body, contentType := multipartBody([][2][]byte{
		{[]byte("quality"), []byte("ultra")},
		{[]byte("video"), []byte("raw video bytes")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	converter.AssertExpectations(t)
}

func TestConvert_MissingBoundary(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_BOUNDARY")
}

func TestConvert_NoVideoField(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body, contentType := multipartBody([][2][]byte{
		{[]byte("quality"), []byte("high")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_VIDEO_FIELD")
}

func TestConvert_TranscodeFailureSurfacesStderr(t *testing.T) {
	router, converter, _ := newTestRouter(t)

	converter.On("Probe", mock.Anything, mock.Anything).Return(0.0, errors.New("unreadable"))
	converter.On("Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&media.FFmpegError{
			Args:   []string{"-i", "input"},
			Stderr: "Invalid data found when processing input",
			Err:    errors.New("exit status 1"),
		})

	body, contentType := multipartBody([][2][]byte{
		{[]byte("video"), []byte("not really a video")},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "TRANSCODE_FAILED")
	assert.Contains(t, rec.Body.String(), "Invalid data found when processing input")
}

func TestConvert_UploadTooLarge(t *testing.T) {
	router, _, _ := newTestRouter(t, WithMaxUploadBytes(16))

	body, contentType := multipartBody([][2][]byte{
		{[]byte("video"), bytes.Repeat([]byte("x"), 1024)},
	})

	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPLOAD_TOO_LARGE")
}

func TestConvert_MethodGate(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/convert", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetConversion(t *testing.T) {
	router, _, repo := newTestRouter(t)

	conv := convert.New("high", 123)
	conv.SetOutput(456, "")
	require.NoError(t, conv.Complete())
	require.NoError(t, repo.Save(context.Background(), conv))

	req := httptest.NewRequest(http.MethodGet, "/conversions/"+conv.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), conv.ID)
	assert.Contains(t, rec.Body.String(), `"COMPLETED"`)
	assert.Contains(t, rec.Body.String(), `"output_bytes":456`)
}

func TestGetConversion_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/conversions/conv-does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONVERSION_NOT_FOUND")
}
