// Package server provides the HTTP server for the Vid2Gif API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// ConvertResponse is the HTTP response when the produced GIF was delivered
// via S3 instead of inline in the response body.
type ConvertResponse struct {
	// ID is the unique identifier for the conversion.
	ID string `json:"id"`
	// Status is the final conversion status.
	Status string `json:"status"`
	// URL is the S3 URL of the produced GIF.
	URL string `json:"url"`
}

// ConversionResponse is the HTTP response for conversion record lookups.
type ConversionResponse struct {
	// ID is the unique identifier for the conversion.
	ID string `json:"id"`
	// Status is the current conversion status.
	Status string `json:"status"`
	// Quality is the preset the conversion ran with.
	Quality string `json:"quality"`
	// InputBytes is the size of the uploaded video.
	InputBytes int `json:"input_bytes"`
	// OutputBytes is the size of the produced GIF.
	OutputBytes int `json:"output_bytes"`
	// SourceDurationSec is the probed duration of the source video.
	SourceDurationSec float64 `json:"source_duration_sec,omitempty"`
	// Error contains any error message if the conversion failed.
	Error string `json:"error,omitempty"`
	// URL is the S3 URL of the produced GIF, if it was pushed.
	URL string `json:"url,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
