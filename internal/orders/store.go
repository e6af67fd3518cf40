package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/kv"
)

// StoreKey is the well-known key the whole orders collection lives under.
const StoreKey = "orders"

const maxMutateAttempts = 3

var (
	// ErrNotFound is returned when no order has the requested id.
	ErrNotFound = errors.New("order not found")
	// ErrCorrupt is returned when the stored blob is not a JSON array of orders.
	ErrCorrupt = errors.New("orders blob is corrupt")
	// ErrConflict is returned when Mutate keeps losing compare-and-swap races.
	ErrConflict = errors.New("orders blob changed concurrently")
	// ErrUnchanged may be returned by a MutateFunc to skip the write.
	ErrUnchanged = errors.New("orders unchanged")
)

// MutateFunc receives the current collection and returns the collection to store.
type MutateFunc func(orders []Order) ([]Order, error)

// Store reads and writes the whole orders collection as one blob.
type Store struct {
	backend kv.Backend
	key     string
}

// NewStore creates a new orders Store over backend.
func NewStore(backend kv.Backend) *Store {
	return &Store{
		backend: backend,
		key:     StoreKey,
	}
}

// Load returns the stored collection; an absent key reads as an empty one.
// A malformed blob returns ErrCorrupt instead of silently reading as empty.
func (s *Store) Load(ctx context.Context) ([]Order, error) {
	orders, _, err := s.load(ctx)
	return orders, err
}

func (s *Store) load(ctx context.Context) ([]Order, int64, error) {
	blob, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, 0, fmt.Errorf("read orders: %w", err)
	}
	if blob == nil {
		return []Order{}, 0, nil
	}
	orders := []Order{}
	if err := json.Unmarshal(blob.Data, &orders); err != nil {
		return nil, blob.Version, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if orders == nil {
		// a stored "null"
		orders = []Order{}
	}
	return orders, blob.Version, nil
}

// Save overwrites the entire blob. Concurrent Saves are last-writer-wins over
// the whole collection; use Mutate when that matters.
func (s *Store) Save(ctx context.Context, orders []Order) error {
	_, err := s.put(ctx, orders, kv.AnyVersion)
	return err
}

func (s *Store) put(ctx context.Context, orders []Order, expectedVersion int64) (int64, error) {
	if orders == nil {
		orders = []Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return 0, fmt.Errorf("marshal orders: %w", err)
	}
	return s.backend.Put(ctx, s.key, data, expectedVersion)
}

// Mutate runs load-mutate-save guarded by the blob version. When another writer
// got in between, fn is re-run on the fresh collection, up to maxMutateAttempts.
// It returns the collection as stored after the write.
func (s *Store) Mutate(ctx context.Context, fn MutateFunc) ([]Order, error) {
	orders, _, err := s.MutateVersion(ctx, fn)
	return orders, err
}

// LoadVersion is Load plus the blob version the collection was read at.
func (s *Store) LoadVersion(ctx context.Context) ([]Order, int64, error) {
	return s.load(ctx)
}

// MutateVersion is Mutate plus the blob version of the returned collection.
func (s *Store) MutateVersion(ctx context.Context, fn MutateFunc) ([]Order, int64, error) {
	for attempt := 1; attempt <= maxMutateAttempts; attempt++ {
		current, version, err := s.load(ctx)
		if err != nil {
			return nil, 0, err
		}
		next, err := fn(current)
		if errors.Is(err, ErrUnchanged) {
			return current, version, nil
		}
		if err != nil {
			return nil, 0, err
		}
		written, err := s.put(ctx, next, version)
		if errors.Is(err, kv.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("write orders: %w", err)
		}
		return next, written, nil
	}
	return nil, 0, ErrConflict
}

// Append adds o to the end of the collection.
func (s *Store) Append(ctx context.Context, o Order) ([]Order, error) {
	return s.Mutate(ctx, AppendFunc(o))
}

// AppendFunc is the mutation behind Append.
func AppendFunc(o Order) MutateFunc {
	return func(orders []Order) ([]Order, error) {
		return append(orders, o), nil
	}
}

// Get fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	orders, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(orders, orderID); i >= 0 {
		o := orders[i]
		return &o, nil
	}
	return nil, nil
}

// UpdateStatus sets the status of one order when policy allows the move.
// Other records are left untouched. Setting the current status writes nothing.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, newStatus Status, policy Policy) ([]Order, error) {
	return s.Mutate(ctx, UpdateStatusFunc(orderID, newStatus, policy))
}

// UpdateStatusFunc is the mutation behind UpdateStatus.
func UpdateStatusFunc(orderID string, newStatus Status, policy Policy) MutateFunc {
	return func(orders []Order) ([]Order, error) {
		i := indexOf(orders, orderID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
		}
		if err := policy.Check(orders[i].Status, newStatus); err != nil {
			return nil, err
		}
		if orders[i].Status == newStatus {
			return nil, ErrUnchanged
		}
		orders[i].Status = newStatus
		return orders, nil
	}
}

// Delete removes one order, keeping the relative order of the rest.
func (s *Store) Delete(ctx context.Context, orderID string) ([]Order, error) {
	return s.Mutate(ctx, DeleteFunc(orderID))
}

// DeleteFunc is the mutation behind Delete.
func DeleteFunc(orderID string) MutateFunc {
	return func(orders []Order) ([]Order, error) {
		i := indexOf(orders, orderID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
		}
		return append(orders[:i], orders[i+1:]...), nil
	}
}

func indexOf(orders []Order, orderID string) int {
	for i := range orders {
		if orders[i].ID == orderID {
			return i
		}
	}
	return -1
}
