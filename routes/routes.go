package routes

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shiatsu-backend/config"
	"shiatsu-backend/controllers"
	"shiatsu-backend/utils"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := strings.Split(os.Getenv("CORS_ORIGINS"), ",")
	if len(origins) == 1 && origins[0] == "" {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Public marketing pages
	pages := r.Group("/pages")
	{
		pages.GET("", controllers.GetPages)
		pages.GET("/:slug", controllers.GetPage)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	{
		// Public catalog
		api.GET("/products", controllers.GetProducts)
		api.GET("/products/:id", controllers.GetProduct)
		api.GET("/categories", controllers.GetCategories)

		// Booking flow
		bookings := api.Group("/bookings", utils.AuthMiddleware())
		{
			bookings.POST("", controllers.CreateBooking)
			bookings.GET("", controllers.GetBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.PUT("/:id", controllers.UpdateBooking)
			bookings.DELETE("/:id", controllers.CancelBooking)
		}

		// Back-office
		admin := api.Group("/admin", utils.AuthMiddleware())
		{
			// Bulk status actions gate themselves so a non-staff invocation
			// no-ops with a message instead of a 403
			actions := admin.Group("/bookings")
			{
				actions.POST("/approve", controllers.ApproveBookings)
				actions.POST("/deny", controllers.DenyBookings)
				actions.POST("/reschedule", controllers.RescheduleBookings)
				actions.POST("/refund", controllers.RefundBookings)
			}

			staff := admin.Group("", controllers.StaffRequired())
			{
				staff.GET("/bookings", controllers.AdminGetBookings)
				staff.PUT("/booking-slots/:id", controllers.AdminUpdateBookingSlot)

				staff.POST("/products", controllers.CreateProduct)
				staff.PUT("/products/:id", controllers.UpdateProduct)
				staff.DELETE("/products/:id", controllers.DeleteProduct)

				staff.POST("/categories", controllers.CreateCategory)
				staff.PUT("/categories/:id", controllers.UpdateCategory)
				staff.DELETE("/categories/:id", controllers.DeleteCategory)
			}
		}
	}

	return r
}
