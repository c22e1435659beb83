// Package services contains business logic.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/navlink/navlink/internal/idgen"
	"github.com/navlink/navlink/internal/models"
	"github.com/navlink/navlink/internal/store"
)

// LinkService defines the interface for short-link operations.
type LinkService interface {
	// Create validates destination, allocates an identifier and persists
	// the record with the configured TTL.
	Create(ctx context.Context, destination, prefix string) (*models.Link, error)

	// Resolve returns the record for index. A prefix mismatch in either
	// direction reports models.ErrLinkNotFound, same as absence.
	Resolve(ctx context.Context, index, prefix string) (*models.Link, error)

	// List is a stable stub: the route exists but carries no behavior.
	List(ctx context.Context) ([]*models.Link, error)

	// Delete is a stable stub: the route exists but carries no behavior.
	Delete(ctx context.Context, index string) error
}

// Ensure LinkServiceImpl implements LinkService
var _ LinkService = (*LinkServiceImpl)(nil)

// LinkServiceImpl implements LinkService over a key-value store.
type LinkServiceImpl struct {
	store     store.Store
	allocator *idgen.Allocator
	ttl       time.Duration
}

// NewLinkService creates a LinkService. A ttl of zero or less falls back
// to models.DefaultTTL.
func NewLinkService(st store.Store, gen idgen.Generator, ttl time.Duration) *LinkServiceImpl {
	if ttl <= 0 {
		ttl = models.DefaultTTL
	}
	return &LinkServiceImpl{
		store:     st,
		allocator: idgen.NewAllocator(gen, st, idgen.DefaultMaxAttempts),
		ttl:       ttl,
	}
}

// Create validates the destination URL, allocates a free identifier and
// writes the record. Validation failures surface before any store write.
func (s *LinkServiceImpl) Create(ctx context.Context, destination, prefix string) (*models.Link, error) {
	if err := models.ValidateURL(destination); err != nil {
		return nil, err
	}

	index, err := s.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	link := models.NewLink(index, destination, prefix)

	payload, err := json.Marshal(link.Record())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize link record: %w", err)
	}

	if err := s.store.Put(ctx, index, payload, s.ttl); err != nil {
		return nil, err
	}

	return link, nil
}

// Resolve looks up index and enforces the prefix match.
func (s *LinkServiceImpl) Resolve(ctx context.Context, index, prefix string) (*models.Link, error) {
	payload, err := s.store.Get(ctx, index)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, models.ErrLinkNotFound
		}
		return nil, err
	}

	var rec models.LinkRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode link record: %w", err)
	}

	// Mismatch is indistinguishable from absence so probing a known index
	// with prefix guesses leaks nothing.
	if prefix != rec.Prefix {
		return nil, models.ErrLinkNotFound
	}

	return models.FromRecord(index, rec), nil
}

// List answers as not-found; no enumeration exists over the KV store.
func (s *LinkServiceImpl) List(ctx context.Context) ([]*models.Link, error) {
	return nil, models.ErrLinkNotFound
}

// Delete answers as not-found; records only ever expire via TTL.
func (s *LinkServiceImpl) Delete(ctx context.Context, index string) error {
	return models.ErrLinkNotFound
}
