// services/calendar_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"shiatsu-backend/models"
	"shiatsu-backend/utils"
)

const (
	calendarTimeZone       = "Europe/London"
	defaultCredentialsFile = "service-account-key.json"
	eventTimeLayout        = "2006-01-02T15:04:05"
)

// CalendarService mirrors bookings into the practice's shared Google Calendar.
// Every external failure is logged and swallowed: the calendar is a best-effort
// side channel and must never break booking persistence. Calls run inline in
// the save path with no retry.
type CalendarService struct {
	db         *gorm.DB
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
}

func NewCalendarService(db *gorm.DB, loc *time.Location) *CalendarService {
	s := &CalendarService{
		db:         db,
		calendarID: os.Getenv("CALENDAR_ID"),
		loc:        loc,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}

	credFile := os.Getenv("CALENDAR_CREDENTIALS_FILE")
	if credFile == "" {
		credFile = defaultCredentialsFile
	}
	if _, err := os.Stat(credFile); err != nil {
		log.Printf("Warning: %s not found. Calendar integration will be disabled.", credFile)
		return s
	}

	svc, err := calendar.NewService(context.Background(),
		option.WithCredentialsFile(credFile),
		option.WithScopes(calendar.CalendarScope))
	if err != nil {
		log.Printf("Error authenticating with Google Calendar: %v", err)
		return s
	}
	s.svc = svc
	return s
}

// Enabled reports whether a calendar client was configured.
func (s *CalendarService) Enabled() bool {
	return s.svc != nil && s.calendarID != ""
}

// CreateEvent inserts a calendar event for a new booking plus a 30-minute
// "Admin" buffer event after it, stores both event ids on the row, and creates
// the synthetic admin-slot booking. Admin-slot rows are skipped so the
// synthetic write cannot re-trigger the mirror.
func (s *CalendarService) CreateEvent(booking *models.Booking) {
	if booking.IsAdminSlot || !s.Enabled() {
		return
	}

	sessionStart, err := utils.ParseDateTime(booking.SessionDate, booking.SessionTime, s.loc)
	if err != nil {
		log.Printf("Error creating calendar event for booking %s: %v", booking.ID, err)
		return
	}
	sessionEnd := sessionStart.Add(time.Duration(booking.Product.Duration()) * time.Minute)

	event := s.sessionEvent(booking, sessionStart, sessionEnd)
	event.Reminders = &calendar.EventReminders{
		UseDefault: false,
		Overrides: []*calendar.EventReminder{
			{Method: "email", Minutes: 24 * 60}, // 1 day before
			{Method: "popup", Minutes: 60},      // 1 hour before
		},
		ForceSendFields: []string{"UseDefault"},
	}

	created, err := s.svc.Events.Insert(s.calendarID, event).Do()
	if err != nil {
		log.Printf("Error creating calendar event for booking %s: %v", booking.ID, err)
		return
	}

	adminStart := sessionEnd
	adminEnd := adminStart.Add(models.AdminSlotMinutes * time.Minute)
	adminEvent := &calendar.Event{
		Summary:     "Admin",
		Description: fmt.Sprintf("Admin break after session for %s", clientName(&booking.User)),
		Start:       &calendar.EventDateTime{DateTime: adminStart.Format(eventTimeLayout), TimeZone: calendarTimeZone},
		End:         &calendar.EventDateTime{DateTime: adminEnd.Format(eventTimeLayout), TimeZone: calendarTimeZone},
	}
	adminCreated, err := s.svc.Events.Insert(s.calendarID, adminEvent).Do()
	if err != nil {
		log.Printf("Error creating admin calendar event for booking %s: %v", booking.ID, err)
		return
	}

	// Direct column update so no model hooks run again
	if err := s.db.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(map[string]interface{}{
		"calendar_event_id": created.Id,
		"admin_event_id":    adminCreated.Id,
	}).Error; err != nil {
		log.Printf("Error saving calendar event ids for booking %s: %v", booking.ID, err)
	}
	booking.CalendarEventID = &created.Id
	booking.AdminEventID = &adminCreated.Id

	adminSlot := models.Booking{
		ProductID:   booking.ProductID,
		UserID:      booking.UserID,
		SessionDate: adminStart.Format(utils.DateLayout),
		SessionTime: adminStart.Format(utils.TimeLayout),
		Notes:       fmt.Sprintf("Admin slot after session for %s", clientName(&booking.User)),
		IsAdminSlot: true,
	}
	if err := s.db.Create(&adminSlot).Error; err != nil {
		log.Printf("Error creating admin slot booking for %s: %v", booking.ID, err)
	}
}

// UpdateEvent pushes booking edits to the calendar, creating the event when no
// id was stored yet.
func (s *CalendarService) UpdateEvent(booking *models.Booking) {
	if booking.IsAdminSlot || !s.Enabled() {
		return
	}
	if booking.CalendarEventID == nil || *booking.CalendarEventID == "" {
		s.CreateEvent(booking)
		return
	}

	sessionStart, err := utils.ParseDateTime(booking.SessionDate, booking.SessionTime, s.loc)
	if err != nil {
		log.Printf("Error updating calendar event for booking %s: %v", booking.ID, err)
		return
	}
	sessionEnd := sessionStart.Add(time.Duration(booking.Product.Duration()) * time.Minute)

	if _, err := s.svc.Events.Update(s.calendarID, *booking.CalendarEventID,
		s.sessionEvent(booking, sessionStart, sessionEnd)).Do(); err != nil {
		log.Printf("Error updating calendar event for booking %s: %v", booking.ID, err)
	}
}

// DeleteEvents removes the session event and the admin buffer event, when the
// row carries their ids.
func (s *CalendarService) DeleteEvents(booking *models.Booking) {
	if !s.Enabled() {
		return
	}
	if booking.CalendarEventID != nil && *booking.CalendarEventID != "" {
		if err := s.svc.Events.Delete(s.calendarID, *booking.CalendarEventID).Do(); err != nil {
			log.Printf("Error deleting calendar event for booking %s: %v", booking.ID, err)
		}
	}
	if booking.AdminEventID != nil && *booking.AdminEventID != "" {
		if err := s.svc.Events.Delete(s.calendarID, *booking.AdminEventID).Do(); err != nil {
			log.Printf("Error deleting admin calendar event for booking %s: %v", booking.ID, err)
		}
	}
}

func (s *CalendarService) sessionEvent(booking *models.Booking, start, end time.Time) *calendar.Event {
	return &calendar.Event{
		Summary:     fmt.Sprintf("Shiatsu Session - %s", booking.Product.Name),
		Description: fmt.Sprintf("Client: %s\nNotes: %s", clientName(&booking.User), booking.Notes),
		Start:       &calendar.EventDateTime{DateTime: start.Format(eventTimeLayout), TimeZone: calendarTimeZone},
		End:         &calendar.EventDateTime{DateTime: end.Format(eventTimeLayout), TimeZone: calendarTimeZone},
	}
}

func clientName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
