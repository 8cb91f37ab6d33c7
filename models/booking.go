package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusApproved   BookingStatus = "approved"
	BookingStatusDenied     BookingStatus = "denied"
	BookingStatusReschedule BookingStatus = "reschedule"
	BookingStatusRefund     BookingStatus = "refund"
	BookingStatusRefunded   BookingStatus = "refunded"
)

// AdminSlotMinutes is the length of the synthetic buffer placed after a session
// to block the therapist's prep time.
const AdminSlotMinutes = 30

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_slot,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`

	// Dates and times are stored as "2006-01-02" / "15:04" strings so the slot
	// identity is exact regardless of database timezone handling.
	SessionDate string `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_booking_slot,priority:2"`
	SessionTime string `gorm:"type:varchar(5);not null;uniqueIndex:idx_booking_slot,priority:3"`

	Notes string `gorm:"type:text"`

	CalendarEventID *string `gorm:"type:varchar(255)"`
	AdminEventID    *string `gorm:"type:varchar(255)"`

	IsAdminSlot bool          `gorm:"default:false;uniqueIndex:idx_booking_slot,priority:4"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product Product `gorm:"foreignKey:ProductID"`
	User    User    `gorm:"foreignKey:UserID"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	return
}

func (b *Booking) String() string {
	return fmt.Sprintf("%s on %s at %s", b.ProductID, b.SessionDate, b.SessionTime)
}
