package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shiatsu-backend/config"
	"shiatsu-backend/controllers"
	"shiatsu-backend/models"
	"shiatsu-backend/routes"
	"shiatsu-backend/utils"
)

var testDBCounter int64

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CALENDAR_CREDENTIALS_FILE", "missing-key.json")

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:controllers%d?mode=memory&cache=shared&_foreign_keys=on", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Booking{},
		&models.ReminderLog{},
	))

	config.DB = db
	controllers.Init()
	return routes.SetupRouter()
}

func createUser(t *testing.T, email string, staff bool) (*models.User, string) {
	t.Helper()
	user := models.User{Email: email, Password: "password123", Name: "Test User", IsStaff: staff, IsActive: true}
	require.NoError(t, config.DB.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID.String())
	require.NoError(t, err)
	return &user, token
}

func createCatalog(t *testing.T) (models.Category, models.Product) {
	t.Helper()
	category := models.Category{Name: "Shiatsu Sessions"}
	require.NoError(t, config.DB.Create(&category).Error)
	sixty := 60
	product := models.Product{
		CategoryID:      category.ID,
		Name:            "60-Minute Session",
		Price:           65,
		DurationMinutes: &sixty,
		IsActive:        true,
	}
	require.NoError(t, config.DB.Create(&product).Error)
	return category, product
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingSuccess(t *testing.T) {
	r := setupServer(t)
	_, token := createUser(t, "client@example.com", false)
	_, product := createCatalog(t)

	w := doJSON(r, http.MethodPost, "/api/bookings", token, gin.H{
		"productId":   product.ID.String(),
		"sessionDate": "2030-06-02",
		"sessionTime": "14:00",
		"notes":       "first visit",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.Booking{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	r := setupServer(t)
	_, product := createCatalog(t)

	w := doJSON(r, http.MethodPost, "/api/bookings", "", gin.H{
		"productId":   product.ID.String(),
		"sessionDate": "2030-06-02",
		"sessionTime": "14:00",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingOverlapRejected(t *testing.T) {
	r := setupServer(t)
	user, token := createUser(t, "client@example.com", false)
	category, product := createCatalog(t)

	require.NoError(t, config.DB.Create(&models.Booking{
		ProductID:   product.ID,
		UserID:      user.ID,
		SessionDate: "2030-06-02",
		SessionTime: "14:00",
	}).Error)

	ninety := 90
	other := models.Product{
		CategoryID:      category.ID,
		Name:            "90-Minute Extended Session",
		Price:           95,
		DurationMinutes: &ninety,
		IsActive:        true,
	}
	require.NoError(t, config.DB.Create(&other).Error)

	w := doJSON(r, http.MethodPost, "/api/bookings", token, gin.H{
		"productId":   other.ID.String(),
		"sessionDate": "2030-06-02",
		"sessionTime": "14:30",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "This time slot overlaps with another Shiatsu Session.", resp.Errors["session_time"])

	var count int64
	require.NoError(t, config.DB.Model(&models.Booking{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetBookingScopedToOwner(t *testing.T) {
	r := setupServer(t)
	owner, _ := createUser(t, "owner@example.com", false)
	_, otherToken := createUser(t, "other@example.com", false)
	_, product := createCatalog(t)

	booking := models.Booking{
		ProductID:   product.ID,
		UserID:      owner.ID,
		SessionDate: "2030-06-02",
		SessionTime: "14:00",
	}
	require.NoError(t, config.DB.Create(&booking).Error)

	w := doJSON(r, http.MethodGet, "/api/bookings/"+booking.ID.String(), otherToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkApproveRequiresStaff(t *testing.T) {
	r := setupServer(t)
	client, clientToken := createUser(t, "client@example.com", false)
	_, staffToken := createUser(t, "staff@example.com", true)
	_, product := createCatalog(t)

	booking := models.Booking{
		ProductID:   product.ID,
		UserID:      client.ID,
		SessionDate: "2030-06-02",
		SessionTime: "14:00",
	}
	require.NoError(t, config.DB.Create(&booking).Error)

	// Non-staff: silent no-op with a message
	w := doJSON(r, http.MethodPost, "/api/admin/bookings/approve", clientToken, gin.H{
		"ids": []string{booking.ID.String()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.Booking
	require.NoError(t, config.DB.First(&fresh, "id = ?", booking.ID).Error)
	require.Equal(t, models.BookingStatusPending, fresh.Status)

	// Staff: status changes
	w = doJSON(r, http.MethodPost, "/api/admin/bookings/approve", staffToken, gin.H{
		"ids": []string{booking.ID.String()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, config.DB.First(&fresh, "id = ?", booking.ID).Error)
	require.Equal(t, models.BookingStatusApproved, fresh.Status)
}

// Deny alone carries no staff guard, mirroring the original back-office.
func TestBulkDenyHasNoStaffGuard(t *testing.T) {
	r := setupServer(t)
	client, clientToken := createUser(t, "client@example.com", false)
	_, product := createCatalog(t)

	booking := models.Booking{
		ProductID:   product.ID,
		UserID:      client.ID,
		SessionDate: "2030-06-02",
		SessionTime: "14:00",
	}
	require.NoError(t, config.DB.Create(&booking).Error)

	w := doJSON(r, http.MethodPost, "/api/admin/bookings/deny", clientToken, gin.H{
		"ids": []string{booking.ID.String()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.Booking
	require.NoError(t, config.DB.First(&fresh, "id = ?", booking.ID).Error)
	require.Equal(t, models.BookingStatusDenied, fresh.Status)
}

func TestAdminCRUDHiddenFromNonStaff(t *testing.T) {
	r := setupServer(t)
	_, clientToken := createUser(t, "client@example.com", false)
	category, _ := createCatalog(t)

	w := doJSON(r, http.MethodPost, "/api/admin/products", clientToken, gin.H{
		"categoryId": category.ID.String(),
		"name":       "Sneaky Product",
		"price":      10,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductListShowsOnlyActive(t *testing.T) {
	r := setupServer(t)
	category, _ := createCatalog(t)

	inactive := models.Product{CategoryID: category.ID, Name: "Retired Session", Price: 40, IsActive: false}
	require.NoError(t, config.DB.Create(&inactive).Error)

	w := doJSON(r, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int64            `json:"count"`
		Results []models.Product `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Count)
	require.Equal(t, "60-Minute Session", resp.Results[0].Name)
}

func TestProductListCategoryFilter(t *testing.T) {
	r := setupServer(t)
	_, product := createCatalog(t)

	vouchers := models.Category{Name: "Gift Vouchers"}
	require.NoError(t, config.DB.Create(&vouchers).Error)
	voucher := models.Product{CategoryID: vouchers.ID, Name: "£50 Gift Voucher", Price: 50, IsActive: true}
	require.NoError(t, config.DB.Create(&voucher).Error)

	// The category filter runs the count and the page through the join
	w := doJSON(r, http.MethodGet, "/api/products?category=Shiatsu+Sessions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int64            `json:"count"`
		Results []models.Product `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Count)
	require.Equal(t, product.Name, resp.Results[0].Name)
	require.Equal(t, product.ID, resp.Results[0].ID)
}

func TestCancelBookingDeletesRow(t *testing.T) {
	r := setupServer(t)
	owner, token := createUser(t, "owner@example.com", false)
	_, product := createCatalog(t)

	booking := models.Booking{
		ProductID:   product.ID,
		UserID:      owner.ID,
		SessionDate: "2030-06-02",
		SessionTime: "14:00",
	}
	require.NoError(t, config.DB.Create(&booking).Error)

	w := doJSON(r, http.MethodDelete, "/api/bookings/"+booking.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, config.DB.Model(&models.Booking{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
