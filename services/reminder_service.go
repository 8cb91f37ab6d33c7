// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"shiatsu-backend/models"
	"shiatsu-backend/utils"
)

// ReminderService sends next-day session reminders over Twilio. Delivery
// failures are logged per booking and never stop the run.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	loc    *time.Location
}

func NewReminderService(db *gorm.DB, loc *time.Location) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		loc: loc,
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders()
	})

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders messages every client with a real session tomorrow.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	tomorrow := time.Now().In(s.loc).AddDate(0, 0, 1).Format(utils.DateLayout)

	var bookings []models.Booking
	err := s.db.
		Preload("Product").Preload("User").
		Where("session_date = ?", tomorrow).
		Where("is_admin_slot = ?", false).
		Where("status NOT IN ?", []models.BookingStatus{
			models.BookingStatusDenied,
			models.BookingStatusRefunded,
		}).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Failed to fetch bookings for %s: %v", tomorrow, err)
		return
	}

	for i := range bookings {
		s.sendReminder(&bookings[i])
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) sendReminder(booking *models.Booking) {
	if booking.User.Phone == "" {
		log.Printf("Booking %s: client has no phone, skipping reminder", booking.ID)
		return
	}

	message := fmt.Sprintf("Hi %s, a reminder of your %s tomorrow at %s. See you then!",
		clientName(&booking.User), booking.Product.Name, booking.SessionTime)

	// WhatsApp when the phone is in E.164 format, else SMS
	channel := "sms"
	to := booking.User.Phone
	if strings.HasPrefix(booking.User.Phone, "+") {
		to = "whatsapp:" + booking.User.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", booking.User.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", booking.User.Phone, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", booking.User.Phone)
	}

	reminderLog := models.ReminderLog{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for booking %s: %v", booking.ID, err)
	}
}
