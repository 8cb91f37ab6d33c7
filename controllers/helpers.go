package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shiatsu-backend/config"
	"shiatsu-backend/models"
	"shiatsu-backend/services"
	"shiatsu-backend/utils"
)

// Shared collaborators, wired once at startup.
var (
	Validator *services.SlotValidator
	Calendar  *services.CalendarService
	Location  *time.Location
)

// Init builds the booking validator and the calendar mirror against the
// connected database. Must run after config.ConnectDB.
func Init() {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		loc = time.UTC
	}
	Location = loc
	Validator = services.NewSlotValidator(config.DB, loc)
	Calendar = services.NewCalendarService(config.DB, loc)
}

// currentUser resolves the authenticated user from the JWT middleware's
// context value. Writes a 401 and returns false when that fails.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return nil, false
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	return &user, true
}

// paginate reads page/pageSize query params with DRF-style defaults.
func paginate(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}
