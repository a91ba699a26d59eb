// Package media provides video-to-GIF transcoding capabilities.
package media

import (
	"context"

	"github.com/maauso/vid2gif-api/internal/preset"
)

// Converter defines the interface for video-to-GIF conversion.
// Implementations should use ffmpeg or similar tools for transcoding.
type Converter interface {
	// Convert transcodes the video at src into an animated GIF at dst using
	// the given preset parameters. It runs a palette-generation pass
	// followed by a palette-based encoding pass, writing the intermediate
	// palette to a transient file next to dst.
	Convert(ctx context.Context, src, dst string, p preset.Params) error

	// Probe returns the duration in seconds of a media file.
	Probe(ctx context.Context, path string) (float64, error)
}
