// Package convert provides the Conversion aggregate and the Service use
// case that turns an uploaded video into an animated GIF. Conversions run
// synchronously within the request; the aggregate records what happened so
// the result can be inspected afterwards.
package convert

import (
	"errors"
	"sync"
	"time"

	"github.com/maauso/vid2gif-api/internal/convert/id"
)

// Status represents the current state of a Conversion.
type Status string

const (
	// StatusRunning indicates the conversion pipeline is executing.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates the conversion finished successfully.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the conversion encountered an error.
	StatusFailed Status = "FAILED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
// A synchronous pipeline starts running immediately and ends in a
// terminal state; terminal states have no outgoing transitions.
var validTransitions = map[Status][]Status{
	StatusRunning:   {StatusCompleted, StatusFailed},
	StatusCompleted: {},
	StatusFailed:    {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Conversion records a single video-to-GIF conversion.
type Conversion struct {
	mu sync.RWMutex

	// ID is the unique identifier for this conversion.
	ID string
	// Status is the current state.
	Status Status
	// Quality is the preset name the request resolved to.
	Quality string
	// InputBytes is the size of the uploaded video.
	InputBytes int
	// OutputBytes is the size of the produced GIF.
	OutputBytes int
	// SourceDuration is the duration of the source video in seconds,
	// zero when probing failed.
	SourceDuration float64
	// Error contains any error message if the conversion failed.
	Error string
	// OutputURL is the S3 URL when the result was pushed to S3.
	OutputURL string
	// CreatedAt is when the conversion was created.
	CreatedAt time.Time
	// UpdatedAt is when the conversion was last updated.
	UpdatedAt time.Time
	// CompletedAt is when the conversion finished.
	CompletedAt time.Time
}

// New creates a new Conversion with a generated ID in RUNNING state.
func New(quality string, inputBytes int) *Conversion {
	now := time.Now()
	return &Conversion{
		ID:         id.Generate(),
		Status:     StatusRunning,
		Quality:    quality,
		InputBytes: inputBytes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TransitionTo attempts to change the conversion status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (c *Conversion) TransitionTo(status Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !canTransition(c.Status, status) {
		return ErrInvalidTransition
	}

	c.Status = status
	c.UpdatedAt = time.Now()

	switch status {
	case StatusCompleted, StatusFailed:
		c.CompletedAt = c.UpdatedAt
	case StatusRunning:
	}

	return nil
}

// Complete transitions the conversion to COMPLETED state.
func (c *Conversion) Complete() error {
	return c.TransitionTo(StatusCompleted)
}

// Fail transitions the conversion to FAILED state with an error message.
func (c *Conversion) Fail(errMsg string) error {
	c.mu.Lock()
	c.Error = errMsg
	c.mu.Unlock()
	return c.TransitionTo(StatusFailed)
}

// GetStatus returns the current status (thread-safe).
func (c *Conversion) GetStatus() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Status
}

// SetOutput records the produced GIF's size and optional S3 URL.
func (c *Conversion) SetOutput(outputBytes int, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.OutputBytes = outputBytes
	c.OutputURL = url
	c.UpdatedAt = time.Now()
}

// SetSourceDuration records the probed duration of the source video.
func (c *Conversion) SetSourceDuration(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SourceDuration = seconds
	c.UpdatedAt = time.Now()
}

// IsTerminal returns true if the conversion is in a terminal state.
func (c *Conversion) IsTerminal() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Status == StatusCompleted || c.Status == StatusFailed
}

// Clone creates a deep copy of the conversion for safe reads.
func (c *Conversion) Clone() *Conversion {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Conversion{
		ID:             c.ID,
		Status:         c.Status,
		Quality:        c.Quality,
		InputBytes:     c.InputBytes,
		OutputBytes:    c.OutputBytes,
		SourceDuration: c.SourceDuration,
		Error:          c.Error,
		OutputURL:      c.OutputURL,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		CompletedAt:    c.CompletedAt,
	}
}
