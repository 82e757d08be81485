// Package collection implements the ordered, identity-unique collections that
// back the cart, wishlist, compare list and recently viewed list. Each store
// loads its snapshot from a storage.Adapter on construction and writes the
// full snapshot back on every mutation.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// MergePolicy decides what Add does when an item with the same identity exists.
type MergePolicy int

const (
	// MergeReject leaves the collection unchanged and reports ErrAlreadyPresent.
	MergeReject MergePolicy = iota
	// MergeCombine replaces the existing item with Policy.Combine(existing, incoming).
	MergeCombine
	// MergeMoveToFront removes the existing item and prepends the incoming one.
	// New items are prepended as well.
	MergeMoveToFront
)

// Outcome reports what Add did.
type Outcome int

const (
	Unchanged Outcome = iota
	Added
	Merged
	Moved
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Merged:
		return "merged"
	case Moved:
		return "moved"
	default:
		return "unchanged"
	}
}

// Policy configures a store instance.
type Policy[T any] struct {
	// Key is the storage key the snapshot lives under.
	Key string
	// Identity returns the unique id of an item.
	Identity func(T) string
	Merge    MergePolicy
	// Combine is required for MergeCombine.
	Combine func(existing, incoming T) T
	// Capacity bounds the collection size; zero means unbounded.
	Capacity int
	// Truncate drops items from the tail on overflow instead of rejecting the add.
	Truncate bool
	// FullErr is returned when an add is rejected for capacity.
	// Defaults to model.ErrCollectionFull.
	FullErr error
}

func (p Policy[T]) validate() error {
	if p.Key == "" {
		return fmt.Errorf("collection key is required")
	}
	if p.Identity == nil {
		return fmt.Errorf("collection %s: identity function is required", p.Key)
	}
	if p.Merge == MergeCombine && p.Combine == nil {
		return fmt.Errorf("collection %s: combine function is required for MergeCombine", p.Key)
	}
	if p.Capacity < 0 {
		return fmt.Errorf("collection %s: capacity cannot be negative", p.Key)
	}
	return nil
}

// Store is a persistent, ordered collection of unique items.
type Store[T any] struct {
	mu          sync.Mutex
	adapter     storage.Adapter
	policy      Policy[T]
	items       []T
	subscribers map[int]func([]T)
	nextSubID   int
	logger      zerolog.Logger
}

// New creates a store and loads its snapshot. A missing, unreadable or
// corrupt snapshot yields an empty collection.
func New[T any](ctx context.Context, adapter storage.Adapter, policy Policy[T], logger zerolog.Logger) (*Store[T], error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	if policy.FullErr == nil {
		policy.FullErr = model.ErrCollectionFull
	}

	s := &Store[T]{
		adapter:     adapter,
		policy:      policy,
		subscribers: make(map[int]func([]T)),
		logger:      logger.With().Str("collection", policy.Key).Logger(),
	}
	s.items = s.load(ctx)

	return s, nil
}

func (s *Store[T]) load(ctx context.Context) []T {
	raw, ok, err := s.adapter.Get(ctx, s.policy.Key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read snapshot, starting empty")
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot is not valid JSON, starting empty")
		return []T{}
	}

	normalized := s.normalize(items)
	if len(normalized) != len(items) {
		s.logger.Warn().
			Int("stored", len(items)).
			Int("kept", len(normalized)).
			Msg("dropped duplicate or overflowing items from snapshot")
	}

	s.logger.Debug().Int("count", len(normalized)).Msg("snapshot loaded")

	return normalized
}

// normalize drops duplicate identities (first occurrence wins) and enforces capacity.
func (s *Store[T]) normalize(items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := s.policy.Identity(item)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	if s.policy.Capacity > 0 && len(out) > s.policy.Capacity {
		out = out[:s.policy.Capacity]
	}
	return out
}

func (s *Store[T]) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item T) bool {
		return s.policy.Identity(item) == id
	})
}

// Key returns the storage key of the collection.
func (s *Store[T]) Key() string {
	return s.policy.Key
}

// Add inserts item according to the merge and capacity policy.
// Rejections are reported as domain errors with Unchanged.
func (s *Store[T]) Add(ctx context.Context, item T) (Outcome, error) {
	s.mu.Lock()

	outcome, next, err := s.planAdd(item)
	if err != nil || outcome == Unchanged {
		s.mu.Unlock()
		return Unchanged, err
	}

	notify, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return Unchanged, err
	}

	notify()
	return outcome, nil
}

func (s *Store[T]) planAdd(item T) (Outcome, []T, error) {
	idx := s.indexOf(s.policy.Identity(item))

	if idx >= 0 {
		switch s.policy.Merge {
		case MergeCombine:
			next := slices.Clone(s.items)
			next[idx] = s.policy.Combine(next[idx], item)
			return Merged, next, nil

		case MergeMoveToFront:
			if idx == 0 {
				return Unchanged, nil, nil
			}
			next := make([]T, 0, len(s.items))
			next = append(next, item)
			next = append(next, s.items[:idx]...)
			next = append(next, s.items[idx+1:]...)
			return Moved, s.truncate(next), nil

		default:
			return Unchanged, nil, model.ErrAlreadyPresent
		}
	}

	if s.policy.Capacity > 0 && len(s.items) >= s.policy.Capacity && !s.policy.Truncate {
		s.logger.Debug().Int("capacity", s.policy.Capacity).Msg("add rejected, collection full")
		return Unchanged, nil, s.policy.FullErr
	}

	var next []T
	if s.policy.Merge == MergeMoveToFront {
		next = make([]T, 0, len(s.items)+1)
		next = append(next, item)
		next = append(next, s.items...)
	} else {
		next = append(slices.Clone(s.items), item)
	}

	return Added, s.truncate(next), nil
}

func (s *Store[T]) truncate(items []T) []T {
	if s.policy.Capacity > 0 && len(items) > s.policy.Capacity {
		return items[:s.policy.Capacity]
	}
	return items
}

// Remove deletes the item with the given id. It reports whether an item was removed.
func (s *Store[T]) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.items), idx, idx+1)
	notify, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	notify()
	return true, nil
}

// Update rewrites the collection atomically. fn receives a copy of the current
// items; returning an error aborts the update. The result is normalised
// before it is persisted.
func (s *Store[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	s.mu.Lock()

	next, err := fn(slices.Clone(s.items))
	if err != nil {
		s.mu.Unlock()
		return err
	}

	notify, err := s.commitLocked(ctx, s.normalize(next))
	s.mu.Unlock()
	if err != nil {
		return err
	}

	notify()
	return nil
}

// Clear empties the collection.
func (s *Store[T]) Clear(ctx context.Context) error {
	s.mu.Lock()

	notify, err := s.commitLocked(ctx, []T{})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	notify()
	return nil
}

// commitLocked persists next and swaps it in. The in-memory list is left
// untouched when the write fails. The returned function notifies subscribers
// and must be called after the lock is released.
func (s *Store[T]) commitLocked(ctx context.Context, next []T) (func(), error) {
	if next == nil {
		next = []T{}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s snapshot: %w", s.policy.Key, err)
	}

	if err := s.adapter.Set(ctx, s.policy.Key, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist snapshot")
		return nil, fmt.Errorf("failed to persist %s: %w", s.policy.Key, err)
	}

	s.items = next

	subs := make([]func([]T), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}

	return func() {
		for _, fn := range subs {
			fn(slices.Clone(next))
		}
	}, nil
}

// Contains reports whether an item with the given id is present.
func (s *Store[T]) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexOf(id) >= 0
}

// Get returns the item with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// List returns a copy of the items in collection order.
func (s *Store[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Subscribe registers fn to receive the new list after every successful
// mutation. The returned function removes the subscription.
func (s *Store[T]) Subscribe(fn func([]T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
