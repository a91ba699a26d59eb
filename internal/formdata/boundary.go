package formdata

import "strings"

// ExtractBoundary derives the multipart boundary token from a Content-Type
// header value. The scan is a case-sensitive search for "boundary="; the
// token runs to the next ';' or to the end of the value. Quoted boundary
// values are not unquoted, a known limitation that matches what real
// browsers send in practice.
func ExtractBoundary(contentType string) (string, error) {
	const attr = "boundary="

	idx := strings.Index(contentType, attr)
	if idx < 0 {
		return "", ErrMissingBoundary
	}

	boundary := contentType[idx+len(attr):]
	if end := strings.IndexByte(boundary, ';'); end >= 0 {
		boundary = boundary[:end]
	}
	if boundary == "" {
		return "", ErrMissingBoundary
	}

	return boundary, nil
}
