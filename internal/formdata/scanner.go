package formdata

import "bytes"

// Scanner yields the raw parts of a multipart body in order, one per call to
// Scan. It locates every occurrence of the "--" + boundary delimiter and
// emits the byte range between consecutive occurrences; the region before
// the first delimiter (the preamble) is discarded. A body containing K
// delimiter occurrences therefore yields exactly K-1 raw parts: the closing
// "--"-suffixed delimiter terminates the sequence because no further
// occurrence exists to pair with it.
//
// The sequence is finite and non-restartable. Raw parts alias the body
// buffer; callers must not retain them past the buffer's lifetime.
type Scanner struct {
	body    []byte
	pattern []byte
	cursor  int
	started bool
	part    []byte
}

// NewScanner creates a Scanner over a fully buffered body. The boundary
// token must be non-empty; use ExtractBoundary to obtain it.
func NewScanner(body []byte, boundary string) *Scanner {
	return &Scanner{
		body:    body,
		pattern: []byte("--" + boundary),
	}
}

// Scan advances to the next raw part. It returns false when no further part
// exists. A body with zero delimiter occurrences yields no parts and no
// error: the caller sees an empty form.
func (s *Scanner) Scan() bool {
	if !s.started {
		s.started = true
		first := bytes.Index(s.body, s.pattern)
		if first < 0 {
			s.cursor = len(s.body)
			return false
		}
		s.cursor = first + len(s.pattern)
	}

	rel := bytes.Index(s.body[s.cursor:], s.pattern)
	if rel < 0 {
		s.part = nil
		return false
	}

	next := s.cursor + rel
	s.part = s.body[s.cursor:next]
	s.cursor = next + len(s.pattern)
	return true
}

// Part returns the raw part found by the last successful call to Scan,
// including its header block. The slice aliases the scanned body.
func (s *Scanner) Part() []byte {
	return s.part
}
