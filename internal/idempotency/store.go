package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/kv"
)

const keyPrefix = "idempotency:"

// ErrNotFound is returned when marking a key that was never created.
var ErrNotFound = errors.New("idempotency record not found")

// Store keeps checkout idempotency records in the same blob backend as the orders.
type Store struct {
	backend   kv.Backend
	ttlWindow time.Duration // how long a record suppresses retries
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow: how long a key is remembered (e.g., 24*time.Hour)
func NewStore(backend kv.Backend, ttlWindow time.Duration) *Store {
	return &Store{
		backend:   backend,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// CreateIfNotExists creates an IN_PROGRESS record for key.
// Returns (true, nil) if created, (false, nil) if a live record already exists
// (caller should Get to inspect). An expired record is replaced.
func (s *Store) CreateIfNotExists(ctx context.Context, key string) (bool, error) {
	now := s.nowFunc()
	rec := Record{
		Key:       key,
		Status:    StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttlWindow).Unix(),
	}

	var expected int64
	existing, version, err := s.get(ctx, key)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if !existing.expired(now) {
			return false, nil
		}
		expected = version
	}

	err = s.put(ctx, &rec, expected)
	if errors.Is(err, kv.ErrVersionConflict) {
		// someone else created it first
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves a live record by key. Missing or expired keys return (nil, nil).
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	rec, _, err := s.get(ctx, key)
	if err != nil || rec == nil {
		return nil, err
	}
	if rec.expired(s.nowFunc()) {
		return nil, nil
	}
	return rec, nil
}

// MarkDone stores the response to replay for duplicates and the order it created.
func (s *Store) MarkDone(ctx context.Context, key, orderID, responseBody string, responseStatus int) error {
	return s.update(ctx, key, func(rec *Record) {
		rec.Status = StatusDone
		rec.OrderID = orderID
		rec.ResponseBody = responseBody
		rec.ResponseStatus = responseStatus
	})
}

// MarkFailed marks the record FAILED so the client may retry with the same key.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	return s.update(ctx, key, func(rec *Record) {
		rec.Status = StatusFailed
		rec.Note = note
	})
}

func (s *Store) update(ctx context.Context, key string, fn func(*Record)) error {
	rec, version, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	fn(rec)
	rec.UpdatedAt = s.nowFunc()
	if err := s.put(ctx, rec, version); err != nil {
		return fmt.Errorf("update record (%s): %w", rec.Status, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (*Record, int64, error) {
	blob, err := s.backend.Get(ctx, keyPrefix+key)
	if err != nil {
		return nil, 0, fmt.Errorf("get record: %w", err)
	}
	if blob == nil {
		return nil, 0, nil
	}
	var rec Record
	if err := json.Unmarshal(blob.Data, &rec); err != nil {
		return nil, 0, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, blob.Version, nil
}

func (s *Store) put(ctx context.Context, rec *Record, expectedVersion int64) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := s.backend.Put(ctx, keyPrefix+rec.Key, data, expectedVersion); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}
