package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDurationMinutes is assumed for products without an explicit duration
// (gift vouchers) when one is needed for scheduling.
const DefaultDurationMinutes = 60

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name            string  `gorm:"not null"`
	Description     string  `gorm:"type:text"`
	Price           float64 `gorm:"type:decimal(8,2);not null"`
	DurationMinutes *int    // in minutes, nil for vouchers
	IsActive        bool    `gorm:"default:true"`

	Category Category  `gorm:"foreignKey:CategoryID"`
	Bookings []Booking `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Duration returns the session length in minutes, falling back to the default
// for products without one.
func (p *Product) Duration() int {
	if p.DurationMinutes != nil && *p.DurationMinutes > 0 {
		return *p.DurationMinutes
	}
	return DefaultDurationMinutes
}
