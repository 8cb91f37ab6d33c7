package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shiatsu-backend/models"
)

// Without a credential file the mirror must stay disabled and every call must
// be a harmless no-op: bookings persist regardless of the calendar.
func TestCalendarServiceDisabledWithoutCredentials(t *testing.T) {
	f := setupFixture(t)

	t.Setenv("CALENDAR_CREDENTIALS_FILE", "missing-key.json")
	svc := NewCalendarService(f.db, time.UTC)
	require.False(t, svc.Enabled())

	booking := f.booking("2026-06-02", "14:00")
	require.NoError(t, f.db.Create(booking).Error)
	booking.Product = f.product
	booking.User = f.user

	svc.CreateEvent(booking)
	svc.UpdateEvent(booking)
	svc.DeleteEvents(booking)

	// No event ids stored, no synthetic admin slot created
	var fresh models.Booking
	require.NoError(t, f.db.First(&fresh, "id = ?", booking.ID).Error)
	require.Nil(t, fresh.CalendarEventID)
	require.Nil(t, fresh.AdminEventID)

	var adminSlots int64
	require.NoError(t, f.db.Model(&models.Booking{}).Where("is_admin_slot = ?", true).Count(&adminSlots).Error)
	require.EqualValues(t, 0, adminSlots)
}

// Admin-slot rows never reach the external service, even when it is enabled;
// the guard sits before the client check.
func TestCalendarServiceSkipsAdminSlots(t *testing.T) {
	f := setupFixture(t)

	t.Setenv("CALENDAR_CREDENTIALS_FILE", "missing-key.json")
	svc := NewCalendarService(f.db, time.UTC)

	buffer := f.booking("2026-06-02", "15:00")
	buffer.IsAdminSlot = true
	require.NoError(t, f.db.Create(buffer).Error)

	svc.CreateEvent(buffer)
	svc.UpdateEvent(buffer)

	var fresh models.Booking
	require.NoError(t, f.db.First(&fresh, "id = ?", buffer.ID).Error)
	require.Nil(t, fresh.CalendarEventID)
}
