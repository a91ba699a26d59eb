package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/maauso/vid2gif-api/internal/preset"
)

// Static errors for media operations.
var (
	// ErrInvalidParams is returned when the preset parameters are not positive.
	ErrInvalidParams = errors.New("invalid preset parameters: scale, fps and colors must be positive")
	// ErrFFprobeExecution is returned when the ffprobe command fails.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
)

// FFmpegConverter implements Converter using the ffmpeg CLI.
type FFmpegConverter struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// ffprobePath is the path to the ffprobe binary, derived from
	// ffmpegPath so a custom install directory covers both tools.
	ffprobePath string
}

// NewFFmpegConverter creates a new FFmpegConverter.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH), and
// ffprobe is expected next to the ffmpeg binary.
func NewFFmpegConverter(ffmpegPath string) *FFmpegConverter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	ffprobePath := "ffprobe"
	if dir := filepath.Dir(ffmpegPath); dir != "." {
		ffprobePath = filepath.Join(dir, "ffprobe")
	}
	return &FFmpegConverter{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Convert transcodes src into an animated GIF at dst in two sequential
// passes. The first pass generates an optimized color palette; the second
// encodes the GIF against that palette. Encoding against a generated
// palette produces far better output than ffmpeg's default GIF dithering.
func (c *FFmpegConverter) Convert(ctx context.Context, src, dst string, p preset.Params) error {
	if p.Scale <= 0 || p.FPS <= 0 || p.Colors <= 0 {
		return fmt.Errorf("%w: scale=%d, fps=%d, colors=%d", ErrInvalidParams, p.Scale, p.FPS, p.Colors)
	}

	palette := dst + ".palette.png"
	defer func() { _ = os.Remove(palette) }()

	if err := c.generatePalette(ctx, src, palette, p); err != nil {
		return fmt.Errorf("palette pass: %w", err)
	}
	if err := c.encodeWithPalette(ctx, src, palette, dst, p); err != nil {
		return fmt.Errorf("encode pass: %w", err)
	}
	return nil
}

// frameFilter builds the fps/scale filter chain shared by both passes.
// scale height -1 preserves the aspect ratio; lanczos keeps downscaled
// frames sharp.
func frameFilter(p preset.Params) string {
	return fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", p.FPS, p.Scale)
}

// generatePalette runs the first pass: extract an optimized palette from the
// source video, bounded by the preset's color count.
func (c *FFmpegConverter) generatePalette(ctx context.Context, src, palette string, p preset.Params) error {
	filter := fmt.Sprintf("%s,palettegen=max_colors=%d", frameFilter(p), p.Colors)

	args := []string{
		"-y",      // Overwrite output file without asking
		"-i", src, // Input file
		"-vf", filter, // Frame filter + palette generation
		palette, // Output palette image
	}

	return c.runFFmpeg(ctx, args)
}

// encodeWithPalette runs the second pass: re-read the source and encode the
// GIF using the palette produced by the first pass.
func (c *FFmpegConverter) encodeWithPalette(ctx context.Context, src, palette, dst string, p preset.Params) error {
	filter := fmt.Sprintf("%s[x];[x][1:v]paletteuse", frameFilter(p))

	args := []string{
		"-y",      // Overwrite output file
		"-i", src, // Input video
		"-i", palette, // Palette from the first pass
		"-lavfi", filter, // Filter graph mapping the palette onto frames
		"-loop", "0", // Loop the GIF forever
		dst, // Output file
	}

	return c.runFFmpeg(ctx, args)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (c *FFmpegConverter) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// Probe returns the duration in seconds of a media file.
// It uses ffprobe to extract the duration metadata.
func (c *FFmpegConverter) Probe(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(stdout.String()), "%f", &duration)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}

	return duration, nil
}
