package domain

import (
	"encoding/json"
	"time"
)

// Booking status values mirror the server's lifecycle vocabulary. The offline
// store treats status as an opaque string so snapshots round-trip values the
// client has never seen.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment status values.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Booking is a local snapshot of a server-side booking record. SyncedAt is
// set on every successful pull from the server and is what staleness checks
// are evaluated against.
type Booking struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	ServiceID     string          `json:"service_id"`
	ServiceType   string          `json:"service_type"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Guests        int             `json:"guests"`
	TotalPrice    float64         `json:"total_price"`
	Currency      string          `json:"currency"`
	Details       json.RawMessage `json:"booking_details,omitempty"`
	ContactEmail  string          `json:"contact_email"`
	ContactPhone  string          `json:"contact_phone"`
	SyncedAt      time.Time       `json:"synced_at"`
}
