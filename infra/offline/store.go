// Package offline implements the offline booking store on an embedded sqlite
// database via gorm.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyago/travelsync/pkg/domain"
	"github.com/voyago/travelsync/pkg/offline"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Store implements offline.Store. Construct it once at the composition root
// and inject it; Open is idempotent in effect (migrations create-if-missing)
// but there is deliberately no package-level handle.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating on first use) the local database at path and ensures
// the bookings and sync_queue schemas exist.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open offline database: %w", err)
	}
	if err := db.AutoMigrate(&bookingRecord{}, &syncQueueRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate offline schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "offline_store")),
		now:    time.Now,
	}, nil
}

// SaveBookings implements offline.Store. The whole batch shares one
// transaction and one synced_at stamp: interleaved readers never observe a
// mix of old and new snapshots from the same pull.
func (s *Store) SaveBookings(ctx context.Context, bookings []domain.Booking, userID string) error {
	if len(bookings) == 0 {
		return nil
	}

	syncedAt := s.now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range bookings {
			rec := mapBookingToRecord(bookings[i], syncedAt)
			if rec.UserID == "" {
				rec.UserID = userID
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save offline bookings: %w", err)
	}

	s.logger.Debug("saved offline bookings", "user_id", userID, "count", len(bookings))
	return nil
}

// BookingsByUser implements offline.Store.
func (s *Store) BookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var recs []bookingRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to read offline bookings: %w", err)
	}

	bookings := make([]domain.Booking, 0, len(recs))
	for i := range recs {
		bookings = append(bookings, mapRecordToBooking(&recs[i]))
	}
	return bookings, nil
}

// BookingByID implements offline.Store. Absence is (nil, nil), not an error.
func (s *Store) BookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	var rec bookingRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read offline booking %s: %w", id, err)
	}

	booking := mapRecordToBooking(&rec)
	return &booking, nil
}

// DeleteBooking implements offline.Store. Deleting an absent id is a no-op.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&bookingRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete offline booking %s: %w", id, err)
	}
	return nil
}

// ClearBookings implements offline.Store.
func (s *Store) ClearBookings(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&bookingRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear offline bookings: %w", err)
	}
	return nil
}

// Enqueue implements offline.Store.
func (s *Store) Enqueue(
	ctx context.Context,
	action domain.SyncAction,
	table string,
	data json.RawMessage,
) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", offline.ErrInvalidAction, action)
	}

	rec := syncQueueRecord{
		Action:      string(action),
		TargetTable: table,
		Data:        data,
		Timestamp:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to enqueue %s on %s: %w", action, table, err)
	}

	s.logger.Debug("queued mutation", "id", rec.ID, "action", action, "table", table)
	return nil
}

// Queue implements offline.Store. Items come back in insertion order; the
// autoincrement primary key makes id order the FIFO order.
func (s *Store) Queue(ctx context.Context) ([]domain.SyncQueueItem, error) {
	var recs []syncQueueRecord
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}

	items := make([]domain.SyncQueueItem, 0, len(recs))
	for i := range recs {
		items = append(items, mapRecordToQueueItem(&recs[i]))
	}
	return items, nil
}

// RemoveQueueItem implements offline.Store.
func (s *Store) RemoveQueueItem(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&syncQueueRecord{}, id).Error; err != nil {
		return fmt.Errorf("failed to remove sync queue item %d: %w", id, err)
	}
	return nil
}

// ClearQueue implements offline.Store.
func (s *Store) ClearQueue(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&syncQueueRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear sync queue: %w", err)
	}
	return nil
}

// Stats implements offline.Store.
func (s *Store) Stats(ctx context.Context) (offline.StorageStats, error) {
	var stats offline.StorageStats
	if err := s.db.WithContext(ctx).Model(&bookingRecord{}).Count(&stats.Bookings).Error; err != nil {
		return offline.StorageStats{}, fmt.Errorf("failed to count offline bookings: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&syncQueueRecord{}).Count(&stats.PendingSync).Error; err != nil {
		return offline.StorageStats{}, fmt.Errorf("failed to count sync queue: %w", err)
	}
	return stats, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ offline.Store = (*Store)(nil)
