package memory

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type watchlistRepository struct {
	entries *collection[*entity.WatchlistEntry]
}

// NewWatchlistRepository returns the watchlist repository of the store.
func NewWatchlistRepository(store *Store) repository.WatchlistRepository {
	return &watchlistRepository{entries: store.watchlist}
}

func (repo *watchlistRepository) CreateEntry(_ context.Context, entry *entity.WatchlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	return repo.entries.insert(entry.ID, entry)
}

func (repo *watchlistRepository) FindEntryByID(_ context.Context, id string) (*entity.WatchlistEntry, error) {
	return repo.entries.get(id)
}

func (repo *watchlistRepository) FindActiveEntriesByUser(_ context.Context, userID string) ([]*entity.WatchlistEntry, error) {
	return repo.entries.filter(func(e *entity.WatchlistEntry) bool {
		return e.UserID == userID && e.Status == entity.WatchlistActive
	})
}

func (repo *watchlistRepository) UpdateEntryStatus(_ context.Context, id string, status entity.WatchlistStatus) error {
	return repo.entries.update(id, func(e *entity.WatchlistEntry) error {
		e.Status = status

		return nil
	})
}
