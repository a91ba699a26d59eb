package convert

import (
	"context"
	"errors"
)

// ErrConversionNotFound is returned when a conversion cannot be found by ID.
var ErrConversionNotFound = errors.New("conversion not found")

// Repository defines the interface for conversion persistence.
// It acts as a port in the hexagonal architecture pattern.
type Repository interface {
	// Save persists a conversion to the storage.
	// If the conversion already exists, it should be updated.
	Save(ctx context.Context, conv *Conversion) error

	// FindByID retrieves a conversion by its unique identifier.
	// Returns ErrConversionNotFound if it does not exist.
	FindByID(ctx context.Context, id string) (*Conversion, error)

	// List returns all conversions.
	List(ctx context.Context) ([]*Conversion, error)

	// Delete removes a conversion from storage.
	// Returns ErrConversionNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
