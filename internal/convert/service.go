package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/maauso/vid2gif-api/internal/media"
	"github.com/maauso/vid2gif-api/internal/preset"
	"github.com/maauso/vid2gif-api/internal/storage"
)

// Input contains the parameters for a conversion.
type Input struct {
	// Video is the raw uploaded video.
	Video []byte
	// Quality is the requested preset name. Unrecognized values resolve
	// to the balanced preset.
	Quality string
	// PushToS3 indicates whether to deliver the produced GIF via S3.
	PushToS3 bool
}

// Output contains the result of a conversion.
type Output struct {
	// Conversion is the persisted record of this run.
	Conversion *Conversion
	// GIF is the produced animated image. Empty when the result was
	// pushed to S3 instead.
	GIF []byte
	// URL is the S3 URL of the result when PushToS3 was requested.
	URL string
}

// Service orchestrates the conversion pipeline: stage the upload to a temp
// file, run the two-pass ffmpeg transcode, collect the result, and clean up.
type Service struct {
	repo      Repository
	converter media.Converter
	store     storage.Storage
	logger    *slog.Logger
}

// NewService creates a new conversion Service.
func NewService(repo Repository, converter media.Converter, store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		converter: converter,
		store:     store,
		logger:    logger,
	}
}

// Convert runs the full pipeline synchronously and returns the produced GIF.
// The Conversion record is persisted in both the success and failure paths,
// so a failed run stays inspectable through the repository.
func (s *Service) Convert(ctx context.Context, input Input) (*Output, error) {
	conv := New(input.Quality, len(input.Video))
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversion: %w", err)
	}

	s.logger.Info("starting conversion",
		slog.String("conversion_id", conv.ID),
		slog.String("quality", input.Quality),
		slog.Int("input_bytes", len(input.Video)),
		slog.Bool("push_to_s3", input.PushToS3),
	)

	out, err := s.run(ctx, conv, input)
	if err != nil {
		s.fail(ctx, conv, err)
		return nil, err
	}

	if err := conv.Complete(); err != nil {
		return nil, fmt.Errorf("complete conversion: %w", err)
	}
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversion: %w", err)
	}

	s.logger.Info("conversion completed",
		slog.String("conversion_id", conv.ID),
		slog.Int("output_bytes", conv.OutputBytes),
	)

	out.Conversion = conv
	return out, nil
}

// run executes the pipeline steps and leaves status handling to Convert.
func (s *Service) run(ctx context.Context, conv *Conversion, input Input) (*Output, error) {
	srcPath, err := s.store.SaveTemp(ctx, conv.ID+"_src", bytes.NewReader(input.Video))
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	// Reserve the output file up front; the .gif suffix tells ffmpeg which
	// muxer to use and the transcoder overwrites the empty file.
	dstPath, err := s.store.SaveTemp(ctx, conv.ID+"_out.gif", bytes.NewReader(nil))
	if err != nil {
		_ = s.store.CleanupTemp(context.WithoutCancel(ctx), []string{srcPath})
		return nil, fmt.Errorf("stage output: %w", err)
	}

	defer func() {
		if err := s.store.CleanupTemp(context.WithoutCancel(ctx), []string{srcPath, dstPath}); err != nil {
			s.logger.Warn("temp cleanup failed",
				slog.String("conversion_id", conv.ID),
				slog.String("error", err.Error()),
			)
		}
	}()

	// Best-effort: a probe failure should not sink the conversion.
	if duration, err := s.converter.Probe(ctx, srcPath); err == nil {
		conv.SetSourceDuration(duration)
	} else {
		s.logger.Warn("probe failed",
			slog.String("conversion_id", conv.ID),
			slog.String("error", err.Error()),
		)
	}

	params := preset.Resolve(input.Quality)
	if err := s.converter.Convert(ctx, srcPath, dstPath, params); err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}

	reader, err := s.store.LoadTemp(ctx, dstPath)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	defer func() { _ = reader.Close() }()

	gif, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}

	if input.PushToS3 {
		url, err := s.store.Upload(ctx, conv.ID+".gif", bytes.NewReader(gif))
		if err != nil {
			return nil, fmt.Errorf("deliver to S3: %w", err)
		}
		conv.SetOutput(len(gif), url)
		return &Output{URL: url}, nil
	}

	conv.SetOutput(len(gif), "")
	return &Output{GIF: gif}, nil
}

// fail marks the conversion failed and persists it; persistence errors in
// the failure path are logged, the original error wins.
func (s *Service) fail(ctx context.Context, conv *Conversion, cause error) {
	s.logger.Error("conversion failed",
		slog.String("conversion_id", conv.ID),
		slog.String("error", cause.Error()),
	)
	if err := conv.Fail(cause.Error()); err != nil {
		s.logger.Error("failed to mark conversion failed",
			slog.String("conversion_id", conv.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.repo.Save(context.WithoutCancel(ctx), conv); err != nil {
		s.logger.Error("failed to save failed conversion",
			slog.String("conversion_id", conv.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Get retrieves a conversion record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Conversion, error) {
	return s.repo.FindByID(ctx, id)
}
