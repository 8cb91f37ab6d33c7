// services/booking_validator.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiatsu-backend/models"
	"shiatsu-backend/utils"
)

// MinAdvanceNotice is how far ahead of "now" a session must be booked.
const MinAdvanceNotice = 24 * time.Hour

// FieldErrors maps input field names to human-readable rejection messages.
// An empty map means the candidate slot may be booked.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// SlotValidator decides whether a candidate (date, time, product) slot may be
// booked. The interval scan is advisory: it reads existing rows without
// locking, so the unique index over (product, date, time, is_admin_slot)
// remains the only hard guarantee against concurrent submissions.
type SlotValidator struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewSlotValidator(db *gorm.DB, loc *time.Location) *SlotValidator {
	if loc == nil {
		loc = time.UTC
	}
	return &SlotValidator{db: db, loc: loc, now: time.Now}
}

// Validate runs all slot checks for the candidate booking. The booking's own
// id is excluded from the scan so updates do not conflict with themselves.
// A non-nil error is a database failure, not a validation outcome.
func (v *SlotValidator) Validate(ctx context.Context, product *models.Product, booking *models.Booking) (FieldErrors, error) {
	errs := FieldErrors{}

	date, dateErr := utils.ParseDate(booking.SessionDate, v.loc)
	if dateErr != nil {
		errs.Add("session_date", "Enter a valid date.")
	}
	if _, err := utils.ParseClockToMinutes(booking.SessionTime); err != nil {
		errs.Add("session_time", "Enter a valid time.")
	}
	if len(errs) > 0 {
		return errs, nil
	}

	now := v.now().In(v.loc)
	if date.Before(utils.BeginningOfDay(now)) {
		errs.Add("session_date", "Session date cannot be in the past.")
		return errs, nil
	}

	start, err := utils.ParseDateTime(booking.SessionDate, booking.SessionTime, v.loc)
	if err != nil {
		errs.Add("session_time", "Enter a valid time.")
		return errs, nil
	}
	if start.Before(now.Add(MinAdvanceNotice)) {
		errs.Add("session_time", "Bookings must be made at least 24 hours in advance.")
		return errs, nil
	}

	duration := product.Duration()
	if booking.IsAdminSlot {
		duration = models.AdminSlotMinutes
	}
	startMin, _ := utils.ParseClockToMinutes(booking.SessionTime)
	candidate := utils.Interval{Start: startMin, End: startMin + duration}

	others, err := v.sameDayBookings(ctx, product.CategoryID, booking)
	if err != nil {
		return nil, err
	}

	categoryName, err := v.categoryName(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}

	for i := range others {
		other := &others[i]
		otherStart, err := utils.ParseClockToMinutes(other.SessionTime)
		if err != nil {
			continue
		}
		otherDuration := models.AdminSlotMinutes
		if !other.IsAdminSlot {
			otherDuration = other.Product.Duration()
		}
		if !utils.Overlaps(candidate, utils.Interval{Start: otherStart, End: otherStart + otherDuration}) {
			continue
		}
		if other.IsAdminSlot {
			errs.Add("session_time", "This time slot conflicts with an admin slot. Please choose another time.")
		} else {
			errs.Add("session_time", fmt.Sprintf("This time slot overlaps with another %s.", singular(categoryName)))
		}
		return errs, nil
	}

	return errs, nil
}

// sameDayBookings lists every booking in the category on the candidate's date,
// excluding the candidate's own row. Admin-slot candidates are only compared
// against real sessions.
func (v *SlotValidator) sameDayBookings(ctx context.Context, categoryID uuid.UUID, booking *models.Booking) ([]models.Booking, error) {
	q := v.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("bookings.*").
		Joins("JOIN products ON products.id = bookings.product_id").
		Where("products.category_id = ?", categoryID).
		Where("bookings.session_date = ?", booking.SessionDate)

	if booking.ID != uuid.Nil {
		q = q.Where("bookings.id <> ?", booking.ID)
	}
	if booking.IsAdminSlot {
		q = q.Where("bookings.is_admin_slot = ?", false)
	}

	var others []models.Booking
	if err := q.Preload("Product").Find(&others).Error; err != nil {
		return nil, err
	}
	return others, nil
}

func (v *SlotValidator) categoryName(ctx context.Context, categoryID uuid.UUID) (string, error) {
	var category models.Category
	if err := v.db.WithContext(ctx).First(&category, "id = ?", categoryID).Error; err != nil {
		return "", err
	}
	return category.Name, nil
}

// Category names are stored as plurals ("Shiatsu Sessions"); the rejection
// message reads against a single booking.
func singular(name string) string {
	return strings.TrimSuffix(name, "s")
}
