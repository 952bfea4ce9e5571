// Package repository defines the interfaces for the persistence layer.
package repository

import "github.com/pkg/errors"

// Domain-agnostic persistence errors. Adapters translate driver errors into these.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when creating a document whose ID is taken.
	ErrAlreadyExists = errors.New("document already exists")
)

// Unsubscribe stops a live feed. It is safe to call more than once.
type Unsubscribe func()

// ChangeKind is the type of a document change delivered by a feed.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// Change is a single document delta.
type Change[T any] struct {
	Kind ChangeKind
	Doc  T
}

// Snapshot carries the full current result set of a query plus the deltas since the previous delivery.
// The first delivery reports every document as ChangeAdded.
type Snapshot[T any] struct {
	Docs    []T
	Changes []Change[T]
}

// Listener receives snapshots in arrival order for one feed.
type Listener[T any] func(Snapshot[T])
