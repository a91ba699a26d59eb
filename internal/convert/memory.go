package convert

import (
	"context"
	"sync"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It uses a map with RWMutex for thread-safe access.
// Suitable for development and testing; swap for persistent storage in production.
type MemoryRepository struct {
	mu          sync.RWMutex
	conversions map[string]*Conversion
}

// NewMemoryRepository creates a new in-memory conversion repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		conversions: make(map[string]*Conversion),
	}
}

// Save persists a conversion to the in-memory storage.
// Creates a clone to avoid external mutations.
func (r *MemoryRepository) Save(_ context.Context, conv *Conversion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversions[conv.ID] = conv.Clone()
	return nil
}

// FindByID retrieves a conversion by its ID.
// Returns a clone to prevent external mutations.
func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Conversion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.conversions[id]
	if !ok {
		return nil, ErrConversionNotFound
	}
	return conv.Clone(), nil
}

// List returns all conversions in the repository.
// Returns clones to prevent external mutations.
func (r *MemoryRepository) List(_ context.Context) ([]*Conversion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Conversion, 0, len(r.conversions))
	for _, conv := range r.conversions {
		result = append(result, conv.Clone())
	}
	return result, nil
}

// Delete removes a conversion from storage.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversions[id]; !ok {
		return ErrConversionNotFound
	}
	delete(r.conversions, id)
	return nil
}
