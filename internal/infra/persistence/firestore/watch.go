package firestore

import (
	"context"
	"log/slog"
	"sync"

	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

type decodeFunc[T any] func(*firestore.DocumentSnapshot) (T, error)

// queryAll runs q and decodes every result.
func queryAll[T any](ctx context.Context, q firestore.Query, decode decodeFunc[T]) ([]T, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, translate(err, "query documents")
	}

	return decodeAll(snaps, decode)
}

func decodeAll[T any](snaps []*firestore.DocumentSnapshot, decode decodeFunc[T]) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		doc, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}

	return out, nil
}

// watchQuery delivers the first snapshot before returning and the rest from a background goroutine.
func watchQuery[T any](ctx context.Context, logger *slog.Logger, name string, q firestore.Query, decode decodeFunc[T], listener repository.Listener[T]) (repository.Unsubscribe, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	it := q.Snapshots(watchCtx)

	first, err := it.Next()
	if err != nil {
		it.Stop()
		cancel()

		return nil, translate(err, "open snapshot listener")
	}
	if err := deliverSnapshot(first, decode, listener); err != nil {
		it.Stop()
		cancel()

		return nil, err
	}

	go func() {
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if errors.Is(err, iterator.Done) || watchCtx.Err() != nil {
					return
				}
				logger.Error("Snapshot listener stopped", slog.String("collection", name), slog.Any("error", err))

				return
			}
			if err := deliverSnapshot(qs, decode, listener); err != nil {
				logger.Warn("Failed to decode snapshot", slog.Any("error", err))
			}
		}
	}()

	var once sync.Once

	return func() { once.Do(cancel) }, nil
}

func deliverSnapshot[T any](qs *firestore.QuerySnapshot, decode decodeFunc[T], listener repository.Listener[T]) error {
	snaps, err := qs.Documents.GetAll()
	if err != nil {
		return errors.Wrap(err, "read snapshot documents")
	}
	docs, err := decodeAll(snaps, decode)
	if err != nil {
		return err
	}

	changes := make([]repository.Change[T], 0, len(qs.Changes))
	for _, change := range qs.Changes {
		doc, err := decode(change.Doc)
		if err != nil {
			return err
		}
		changes = append(changes, repository.Change[T]{Kind: toChangeKind(change.Kind), Doc: doc})
	}

	listener(repository.Snapshot[T]{Docs: docs, Changes: changes})

	return nil
}

func toChangeKind(kind firestore.DocumentChangeKind) repository.ChangeKind {
	switch kind {
	case firestore.DocumentAdded:
		return repository.ChangeAdded
	case firestore.DocumentRemoved:
		return repository.ChangeRemoved
	default:
		return repository.ChangeModified
	}
}
