package firestore

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
)

type watchlistRepository struct {
	client *firestore.Client
}

// NewWatchlistRepository is the constructor for watchlistRepository.
func NewWatchlistRepository(client *firestore.Client) repository.WatchlistRepository {
	return &watchlistRepository{client: client}
}

func (repo *watchlistRepository) entries() *firestore.CollectionRef {
	return repo.client.Collection(collectionWatchlist)
}

func (repo *watchlistRepository) CreateEntry(ctx context.Context, entry *entity.WatchlistEntry) error {
	ref := repo.entries().NewDoc()
	if _, err := ref.Create(ctx, fromWatchlistEntry(entry)); err != nil {
		return translate(err, "failed to create watchlist entry")
	}
	entry.ID = ref.ID

	return nil
}

func (repo *watchlistRepository) FindEntryByID(ctx context.Context, id string) (*entity.WatchlistEntry, error) {
	snap, err := repo.entries().Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to find watchlist entry")
	}

	return toWatchlistEntry(snap)
}

func (repo *watchlistRepository) FindActiveEntriesByUser(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error) {
	q := repo.entries().
		Where("userId", "==", userID).
		Where("status", "==", string(entity.WatchlistActive))

	return queryAll(ctx, q, toWatchlistEntry)
}

func (repo *watchlistRepository) UpdateEntryStatus(ctx context.Context, id string, status entity.WatchlistStatus) error {
	_, err := repo.entries().Doc(id).Update(ctx, []firestore.Update{{Path: "status", Value: string(status)}})

	return translate(err, "failed to update watchlist entry")
}
