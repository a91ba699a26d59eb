package formdata

import "bytes"

var (
	headerSep = []byte("\r\n\r\n")
	crlf      = []byte("\r\n")
)

// Part is one decoded form field: the value of the name="..." attribute from
// the part's header block, and the part body with its trailing line break
// removed. Data is copied out of the scanned body, so a Part stays valid
// after the request buffer is released.
type Part struct {
	Name string
	Data []byte
}

// decodePart splits a raw part into its header block and body. A part
// without the CRLFCRLF separator is malformed and returns ErrMalformedPart;
// callers skip it and keep scanning.
func decodePart(raw []byte) (Part, error) {
	sep := bytes.Index(raw, headerSep)
	if sep < 0 {
		return Part{}, ErrMalformedPart
	}

	name := headerAttr(raw[:sep])

	body := raw[sep+len(headerSep):]
	if len(body) >= 2 && bytes.HasSuffix(body, crlf) {
		body = body[:len(body)-2]
	}

	return Part{Name: name, Data: bytes.Clone(body)}, nil
}

// headerAttr extracts the value of the first name="..." attribute in the
// header block. Escaped quotes inside the value are not handled; real-world
// multipart producers do not escape. A missing attribute or missing closing
// quote yields an empty name, which the form assembler discards.
func headerAttr(header []byte) string {
	const attr = `name="`

	idx := bytes.Index(header, []byte(attr))
	if idx < 0 {
		return ""
	}
	rest := header[idx+len(attr):]
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return string(rest[:end])
}
