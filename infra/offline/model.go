package offline

import (
	"encoding/json"
	"time"

	"github.com/voyago/travelsync/pkg/domain"
)

// bookingRecord is the gorm model for one booking snapshot.
type bookingRecord struct {
	ID            string    `gorm:"primaryKey"`
	UserID        string    `gorm:"index;not null"`
	ServiceID     string    `gorm:"not null"`
	ServiceType   string    `gorm:"not null"`
	Status        string    `gorm:"not null"`
	PaymentStatus string    `gorm:"not null"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	Guests        int       `gorm:"not null"`
	TotalPrice    float64   `gorm:"not null"`
	Currency      string    `gorm:"size:3;not null"`
	Details       []byte
	ContactEmail  string
	ContactPhone  string
	SyncedAt      time.Time `gorm:"not null"`
}

func (bookingRecord) TableName() string { return "bookings" }

// syncQueueRecord is the gorm model for one pending mutation. The primary key
// autoincrements, so insertion order is id order and FIFO reads are a sort.
type syncQueueRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Action      string `gorm:"not null"`
	TargetTable string `gorm:"column:target_table;not null"`
	Data        []byte
	Timestamp   time.Time `gorm:"not null"`
}

func (syncQueueRecord) TableName() string { return "sync_queue" }

func mapBookingToRecord(b domain.Booking, syncedAt time.Time) bookingRecord {
	return bookingRecord{
		ID:            b.ID,
		UserID:        b.UserID,
		ServiceID:     b.ServiceID,
		ServiceType:   b.ServiceType,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		Currency:      b.Currency,
		Details:       b.Details,
		ContactEmail:  b.ContactEmail,
		ContactPhone:  b.ContactPhone,
		SyncedAt:      syncedAt,
	}
}

func mapRecordToBooking(r *bookingRecord) domain.Booking {
	return domain.Booking{
		ID:            r.ID,
		UserID:        r.UserID,
		ServiceID:     r.ServiceID,
		ServiceType:   r.ServiceType,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Guests:        r.Guests,
		TotalPrice:    r.TotalPrice,
		Currency:      r.Currency,
		Details:       json.RawMessage(r.Details),
		ContactEmail:  r.ContactEmail,
		ContactPhone:  r.ContactPhone,
		SyncedAt:      r.SyncedAt,
	}
}

func mapRecordToQueueItem(r *syncQueueRecord) domain.SyncQueueItem {
	return domain.SyncQueueItem{
		ID:        r.ID,
		Action:    domain.SyncAction(r.Action),
		Table:     r.TargetTable,
		Data:      json.RawMessage(r.Data),
		Timestamp: r.Timestamp,
	}
}
