// Package offline defines the durable local booking store and its staleness
// policy. Implementations live in infra; the interface exists so the syncer
// and UI-facing callers can be exercised against fakes.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/voyago/travelsync/pkg/domain"
)

// StaleAfter is the snapshot age past which callers should trigger a refresh
// before trusting the data for decisions.
const StaleAfter = 5 * time.Minute

// ErrInvalidAction is returned by Enqueue for an unknown mutation kind.
var ErrInvalidAction = errors.New("offline: invalid sync action")

// StorageStats reports how much local state the store currently holds.
type StorageStats struct {
	Bookings    int64 `json:"bookings"`
	PendingSync int64 `json:"pending_sync"`
}

// Store is the durable offline layer: last-known booking snapshots plus a
// FIFO queue of mutations awaiting replay against the remote API.
//
// Unlike the exchange cache, every operation surfaces backend failures:
// offline data loss is user-visible and must never be masked.
type Store interface {
	// SaveBookings bulk-upserts the snapshots for one user in a single
	// transaction, stamping each record with the same fresh synced_at.
	// The batch either commits whole or leaves prior state untouched.
	SaveBookings(ctx context.Context, bookings []domain.Booking, userID string) error

	// BookingsByUser returns all snapshots owned by userID, order unspecified.
	BookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)

	// BookingByID returns the snapshot for id, or (nil, nil) when absent.
	BookingByID(ctx context.Context, id string) (*domain.Booking, error)

	DeleteBooking(ctx context.Context, id string) error
	ClearBookings(ctx context.Context) error

	// Enqueue appends one pending mutation with a fresh timestamp and an
	// auto-assigned id.
	Enqueue(ctx context.Context, action domain.SyncAction, table string, data json.RawMessage) error

	// Queue returns all pending items in insertion order. IDs are always
	// populated.
	Queue(ctx context.Context) ([]domain.SyncQueueItem, error)

	// RemoveQueueItem deletes one item; call it only after the remote side
	// acknowledged the mutation it represents.
	RemoveQueueItem(ctx context.Context, id uint) error
	ClearQueue(ctx context.Context) error

	Stats(ctx context.Context) (StorageStats, error)
}

// IsDataStale reports whether a snapshot pulled at syncedAt is too old to
// trust without a refresh. Pure; nothing enforces it — callers check.
func IsDataStale(syncedAt time.Time) bool {
	return time.Since(syncedAt) >= StaleAfter
}
