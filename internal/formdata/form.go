package formdata

import "log/slog"

// Form is the decoded upload form. Video holds the raw file bytes and
// Quality the requested preset name. HasVideo distinguishes a zero-length
// upload from a missing field; callers surface the latter as ErrNoVideoField.
// HasQuality reports whether the quality value was sent explicitly rather
// than filled in by the assembler's default, so callers can apply a
// configured default of their own.
type Form struct {
	Video      []byte
	Quality    string
	HasVideo   bool
	HasQuality bool
}

// setters maps recognized field names to their assignment on the form.
// Dispatching through a table keeps the schema open to extension; parts with
// names outside the table are silently ignored, and a repeated name
// overwrites the earlier value (last write wins, standard multipart
// semantics).
var setters = map[string]func(*Form, []byte){
	FieldVideo: func(f *Form, data []byte) {
		f.Video = data
		f.HasVideo = true
	},
	FieldQuality: func(f *Form, data []byte) {
		f.Quality = string(data)
		f.HasQuality = true
	},
}

// Parse decodes a fully buffered multipart body into a Form. The boundary is
// taken from the Content-Type value; its absence aborts the parse with
// ErrMissingBoundary. Malformed parts are skipped with a warning and do not
// fail the whole upload. A body with no boundary occurrences parses to an
// empty Form; the missing video field is for the caller to detect.
func Parse(contentType string, body []byte, logger *slog.Logger) (Form, error) {
	if logger == nil {
		logger = slog.Default()
	}

	boundary, err := ExtractBoundary(contentType)
	if err != nil {
		return Form{}, err
	}

	form := Form{Quality: DefaultQuality}

	sc := NewScanner(body, boundary)
	for sc.Scan() {
		part, err := decodePart(sc.Part())
		if err != nil {
			logger.Warn("skipping malformed part",
				slog.Int("size", len(sc.Part())),
				slog.String("error", err.Error()),
			)
			continue
		}
		if set, ok := setters[part.Name]; ok {
			set(&form, part.Data)
		}
	}

	return form, nil
}
