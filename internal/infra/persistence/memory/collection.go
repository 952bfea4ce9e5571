// Package memory implements the repository contracts on an in-process reactive document store.
// It backs local development and the usecase tests.
package memory

import (
	"context"
	"sync"

	"bloodlink/internal/domain/repository"
)

// collection is a keyed set of documents with query subscriptions.
// Listeners run synchronously after each write and must not write to the collection they observe.
type collection[T any] struct {
	name  string
	clone func(T) T
	fault func(string) error

	mu        sync.Mutex
	deliverMu sync.Mutex
	docs      map[string]T
	order     []string
	subs      map[int]*subscription[T]
	nextSub   int
}

type subscription[T any] struct {
	match    func(T) bool
	listener repository.Listener[T]
	present  map[string]bool
}

type delivery[T any] struct {
	listener repository.Listener[T]
	snapshot repository.Snapshot[T]
}

func newCollection[T any](name string, clone func(T) T, fault func(string) error) *collection[T] {
	return &collection[T]{
		name:  name,
		clone: clone,
		fault: fault,
		docs:  make(map[string]T),
		subs:  make(map[int]*subscription[T]),
	}
}

func (c *collection[T]) checkFault() error {
	if c.fault == nil {
		return nil
	}

	return c.fault(c.name)
}

func (c *collection[T]) insert(id string, doc T) error {
	if err := c.checkFault(); err != nil {
		return err
	}

	c.mu.Lock()
	if _, exists := c.docs[id]; exists {
		c.mu.Unlock()

		return repository.ErrAlreadyExists
	}
	c.docs[id] = c.clone(doc)
	c.order = append(c.order, id)
	c.publishLocked(id)

	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	var zero T
	if err := c.checkFault(); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return zero, repository.ErrNotFound
	}

	return c.clone(doc), nil
}

// update applies mutate to a copy of the document and stores it when mutate succeeds.
func (c *collection[T]) update(id string, mutate func(T) error) error {
	if err := c.checkFault(); err != nil {
		return err
	}

	c.mu.Lock()
	doc, ok := c.docs[id]
	if !ok {
		c.mu.Unlock()

		return repository.ErrNotFound
	}
	next := c.clone(doc)
	if err := mutate(next); err != nil {
		c.mu.Unlock()

		return err
	}
	c.docs[id] = next
	c.publishLocked(id)

	return nil
}

// updateWhere applies mutate to every document matching pred and returns how many changed.
func (c *collection[T]) updateWhere(pred func(T) bool, mutate func(T)) (int, error) {
	if err := c.checkFault(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	changed := make([]string, 0)
	for _, id := range c.order {
		doc := c.docs[id]
		if !pred(doc) {
			continue
		}
		next := c.clone(doc)
		mutate(next)
		c.docs[id] = next
		changed = append(changed, id)
	}
	if len(changed) == 0 {
		c.mu.Unlock()

		return 0, nil
	}
	c.publishLocked(changed...)

	return len(changed), nil
}

func (c *collection[T]) filter(pred func(T) bool) ([]T, error) {
	if err := c.checkFault(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filterLocked(pred), nil
}

func (c *collection[T]) filterLocked(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range c.order {
		if doc := c.docs[id]; pred(doc) {
			out = append(out, c.clone(doc))
		}
	}

	return out
}

// watch delivers the current result set immediately and then every change to it.
// The subscription ends when the returned func is called or ctx is done.
func (c *collection[T]) watch(ctx context.Context, pred func(T) bool, listener repository.Listener[T]) (repository.Unsubscribe, error) {
	if err := c.checkFault(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	sub := &subscription[T]{match: pred, listener: listener, present: make(map[string]bool)}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sub

	initial := repository.Snapshot[T]{Docs: c.filterLocked(pred)}
	for _, docID := range c.order {
		if doc := c.docs[docID]; pred(doc) {
			sub.present[docID] = true
			initial.Changes = append(initial.Changes, repository.Change[T]{Kind: repository.ChangeAdded, Doc: c.clone(doc)})
		}
	}
	c.deliverMu.Lock()
	c.mu.Unlock()
	listener(initial)
	c.deliverMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)

	return func() {
		stop()
		unsubscribe()
	}, nil
}

// publishLocked computes deltas for changed documents, releases c.mu and delivers in write order.
func (c *collection[T]) publishLocked(changedIDs ...string) {
	deliveries := make([]delivery[T], 0, len(c.subs))
	for _, sub := range c.subs {
		var changes []repository.Change[T]
		for _, docID := range changedIDs {
			doc := c.docs[docID]
			was := sub.present[docID]
			now := sub.match(doc)
			switch {
			case now && !was:
				changes = append(changes, repository.Change[T]{Kind: repository.ChangeAdded, Doc: c.clone(doc)})
			case now && was:
				changes = append(changes, repository.Change[T]{Kind: repository.ChangeModified, Doc: c.clone(doc)})
			case !now && was:
				changes = append(changes, repository.Change[T]{Kind: repository.ChangeRemoved, Doc: c.clone(doc)})
			default:
				continue
			}
			if now {
				sub.present[docID] = true
			} else {
				delete(sub.present, docID)
			}
		}
		if len(changes) == 0 {
			continue
		}
		deliveries = append(deliveries, delivery[T]{
			listener: sub.listener,
			snapshot: repository.Snapshot[T]{Docs: c.filterLocked(sub.match), Changes: changes},
		})
	}

	c.deliverMu.Lock()
	c.mu.Unlock()
	defer c.deliverMu.Unlock()

	for _, d := range deliveries {
		d.listener(d.snapshot)
	}
}
