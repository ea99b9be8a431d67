// Package syncer drains the offline mutation queue against the remote
// bookings API and refreshes the local snapshots once connectivity returns.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/voyago/travelsync/pkg/domain"
	"github.com/voyago/travelsync/pkg/offline"
)

// RemoteAPI is the remote bookings collaborator the syncer replays against.
type RemoteAPI interface {
	FetchBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	Apply(ctx context.Context, item domain.SyncQueueItem) error
}

// Syncer replays queued mutations in FIFO order and pulls fresh booking
// snapshots into the offline store.
type Syncer struct {
	store      offline.Store
	remote     RemoteAPI
	logger     *slog.Logger
	maxRetries uint64
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithMaxRetries caps per-item replay attempts before Drain gives up.
func WithMaxRetries(n uint64) Option {
	return func(s *Syncer) { s.maxRetries = n }
}

// New creates a Syncer over the given store and remote API.
func New(store offline.Store, remote RemoteAPI, logger *slog.Logger, opts ...Option) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Syncer{
		store:      store,
		remote:     remote,
		logger:     logger.With(slog.String("component", "syncer")),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Drain replays every pending mutation in insertion order. An item is removed
// from the queue only after the remote API acknowledged it, so a crash
// mid-replay leaves it queued (at-least-once; the Idempotency-Key on the wire
// makes the retry safe).
//
// Replay stops at the first item that exhausts its retries: later mutations
// to the same entity may depend on earlier ones, so skipping would reorder
// the history. The failed item and everything behind it stay queued.
func (s *Syncer) Drain(ctx context.Context) (int, error) {
	items, err := s.store.Queue(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read sync queue: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	s.logger.Info("draining sync queue", "pending", len(items))

	applied := 0
	for _, item := range items {
		if err := s.applyWithRetry(ctx, item); err != nil {
			s.logger.Error("replay halted",
				"item", item.String(),
				"applied", applied,
				"error", err,
			)
			return applied, fmt.Errorf("failed to replay %s: %w", item, err)
		}
		if err := s.store.RemoveQueueItem(ctx, item.ID); err != nil {
			// The mutation is applied remotely but still queued locally; the
			// next Drain will replay it and the server dedupes it.
			return applied, fmt.Errorf("failed to dequeue %s after ack: %w", item, err)
		}
		applied++
	}

	s.logger.Info("sync queue drained", "applied", applied)
	return applied, nil
}

func (s *Syncer) applyWithRetry(ctx context.Context, item domain.SyncQueueItem) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries),
		ctx,
	)
	return backoff.Retry(func() error {
		return s.remote.Apply(ctx, item)
	}, policy)
}

// Refresh pulls the user's bookings from the remote API and replaces the
// offline snapshots, re-stamping synced_at.
func (s *Syncer) Refresh(ctx context.Context, userID string) error {
	bookings, err := s.remote.FetchBookings(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch bookings for %s: %w", userID, err)
	}
	if err := s.store.SaveBookings(ctx, bookings, userID); err != nil {
		return err
	}

	s.logger.Info("refreshed offline snapshot", "user_id", userID, "bookings", len(bookings))
	return nil
}

// Run drains the queue and refreshes the snapshot immediately and then on
// every tick until the context is cancelled. The immediate pass matters:
// Run is started when connectivity returns, and queued mutations must not
// sit for a full interval. Failures are logged and retried on the next
// tick; the loop itself never dies on a transient error.
func (s *Syncer) Run(ctx context.Context, userID string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.pass(ctx, userID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.pass(ctx, userID)
		}
	}
}

func (s *Syncer) pass(ctx context.Context, userID string) {
	if _, err := s.Drain(ctx); err != nil {
		s.logger.Warn("drain failed, will retry next tick", "error", err)
		return
	}
	if err := s.Refresh(ctx, userID); err != nil {
		s.logger.Warn("refresh failed, will retry next tick", "error", err)
	}
}
