// Package preset maps quality names to transcoding parameters.
package preset

// Params is a bundle of transcoding parameters: output width in pixels
// (height follows the aspect ratio), frame rate, and palette size.
type Params struct {
	// Scale is the output width in pixels.
	Scale int
	// FPS is the output frame rate.
	FPS int
	// Colors is the maximum palette size for the generated GIF.
	Colors int
}

// Quality preset names accepted by the upload form.
const (
	QualityFast     = "fast"
	QualityBalanced = "balanced"
	QualityHigh     = "high"
)

// presets is the closed set of recognized quality presets.
var presets = map[string]Params{
	QualityFast:     {Scale: 320, FPS: 10, Colors: 64},
	QualityBalanced: {Scale: 480, FPS: 12, Colors: 128},
	QualityHigh:     {Scale: 640, FPS: 15, Colors: 256},
}

// Resolve returns the parameters for a quality name. Any unrecognized value,
// including the empty string, resolves to the balanced preset rather than
// erroring: a bad quality field should not reject an otherwise valid upload.
func Resolve(quality string) Params {
	if p, ok := presets[quality]; ok {
		return p
	}
	return presets[QualityBalanced]
}

// IsValid reports whether the quality name is a recognized preset.
func IsValid(quality string) bool {
	_, ok := presets[quality]
	return ok
}
