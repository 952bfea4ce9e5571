package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// WatchlistRepository defines the interface for watchlist operations.
type WatchlistRepository interface {
	// CreateEntry persists a new watchlist entry.
	CreateEntry(ctx context.Context, entry *entity.WatchlistEntry) error

	// FindEntryByID retrieves a single entry.
	FindEntryByID(ctx context.Context, id string) (*entity.WatchlistEntry, error)

	// FindActiveEntriesByUser returns the active entries of a seeker.
	FindActiveEntriesByUser(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error)

	// UpdateEntryStatus changes the status of an entry.
	UpdateEntryStatus(ctx context.Context, id string, status entity.WatchlistStatus) error
}
