// controllers/bookings.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiatsu-backend/config"
	"shiatsu-backend/models"
	"shiatsu-backend/utils"
)

// CreateBookingInput defines the expected JSON structure for booking a session
type CreateBookingInput struct {
	ProductID   string `json:"productId" binding:"required"`
	SessionDate string `json:"sessionDate" binding:"required"`
	SessionTime string `json:"sessionTime" binding:"required"`
	Notes       string `json:"notes"`
}

// UpdateBookingInput carries the editable booking fields
type UpdateBookingInput struct {
	SessionDate string `json:"sessionDate" binding:"required"`
	SessionTime string `json:"sessionTime" binding:"required"`
	Notes       string `json:"notes"`
}

// CreateBooking books a session for the authenticated user. Slot conflicts are
// reported as field errors; the calendar mirror runs after the row commits and
// never fails the request.
func CreateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	productUUID, err := uuid.Parse(input.ProductID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", productUUID, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	booking := models.Booking{
		ProductID:   product.ID,
		UserID:      user.ID,
		SessionDate: input.SessionDate,
		SessionTime: input.SessionTime,
		Notes:       input.Notes,
	}

	fieldErrs, err := Validator.Validate(c.Request.Context(), &product, &booking)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	// A concurrent submission for the identical slot loses here on the unique
	// index and surfaces as a plain failure.
	if err := config.DB.Create(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	booking.Product = product
	booking.User = *user
	Calendar.CreateEvent(&booking)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your session has been booked!",
		"booking": booking,
	})
}

// GetBookings lists the caller's own sessions, newest first — the profile view.
func GetBookings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := config.DB.Model(&models.Booking{}).
		Where("user_id = ?", user.ID).
		Where("is_admin_slot = ?", false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	limit, offset := paginate(c)
	var bookings []models.Booking
	if err := q.Preload("Product").
		Order("session_date DESC, session_time DESC").
		Limit(limit).Offset(offset).
		Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": bookings})
}

// GetBooking shows a single booking — the confirmation view. Scoped to the
// owner; anyone else sees a 404, not a 403.
func GetBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	booking, ok := ownBooking(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateBooking reschedules the caller's booking, re-running the slot checks
// with the booking's own row excluded.
func UpdateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	booking, ok := ownBooking(c, user)
	if !ok {
		return
	}

	var input UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking.SessionDate = input.SessionDate
	booking.SessionTime = input.SessionTime
	booking.Notes = input.Notes

	fieldErrs, err := Validator.Validate(c.Request.Context(), &booking.Product, booking)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	if err := config.DB.Save(booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	Calendar.UpdateEvent(booking)

	c.JSON(http.StatusOK, gin.H{
		"message": "Your booking has been updated successfully!",
		"booking": booking,
	})
}

// CancelBooking deletes the caller's booking and its mirrored calendar events.
func CancelBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	booking, ok := ownBooking(c, user)
	if !ok {
		return
	}

	Calendar.DeleteEvents(booking)

	if err := config.DB.Delete(&models.Booking{}, "id = ?", booking.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your booking has been cancelled successfully!"})
}

// ownBooking loads the booking in the path, scoped to the owner. Responds 404
// on a miss so booking ids are not probeable.
func ownBooking(c *gin.Context, user *models.User) (*models.Booking, bool) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return nil, false
	}

	var booking models.Booking
	if err := config.DB.Preload("Product").Preload("User").
		Where("id = ? AND user_id = ?", bookingUUID, user.ID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &booking, true
}
