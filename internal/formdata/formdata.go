// Package formdata implements a hand-rolled multipart/form-data decoder for
// the upload endpoint. It operates on a fully buffered request body: the
// caller must read the entire payload into memory before parsing begins.
// This is a deliberate contract, not an optimization gap: the parser scans
// a single in-memory byte sequence and never suspends on I/O. Streaming,
// nested multipart, and chunked uploads larger than memory are out of scope.
package formdata

import "errors"

// Static errors for multipart parsing.
var (
	// ErrMissingBoundary is returned when no boundary token can be derived
	// from the Content-Type header value.
	ErrMissingBoundary = errors.New("formdata: no boundary in content type")
	// ErrMalformedPart is returned when a raw part lacks the CRLFCRLF
	// header/body separator. It is recoverable: the part is skipped.
	ErrMalformedPart = errors.New("formdata: part missing header/body separator")
	// ErrNoVideoField is returned by callers when parsing succeeded but the
	// form contains no video field.
	ErrNoVideoField = errors.New("formdata: no video field in form")
)

// Recognized form field names.
const (
	FieldVideo   = "video"
	FieldQuality = "quality"
)

// DefaultQuality is the quality value assumed when the form omits one.
const DefaultQuality = "balanced"
