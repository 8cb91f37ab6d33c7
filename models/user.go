package models

import (
	"shiatsu-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string
	Phone    string

	IsStaff     bool `gorm:"default:false"`
	IsSuperuser bool `gorm:"default:false"`
	IsActive    bool `gorm:"default:true"`

	LastLogin *time.Time

	Bookings []Booking `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	// No soft delete: a plain Delete must hard-delete the row so the
	// booking cascade fires.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// CanModerate reports whether the user may run staff-only booking actions.
func (u *User) CanModerate() bool {
	return u.IsStaff || u.IsSuperuser
}
