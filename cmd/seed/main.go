// cmd/seed populates the catalog with the practice's sample categories and
// products, or clears it with -clear -confirm.
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"shiatsu-backend/config"
	"shiatsu-backend/models"
)

func main() {
	clear := flag.Bool("clear", false, "delete all products and categories instead of seeding")
	confirm := flag.Bool("confirm", false, "confirm deletion when -clear is set")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()
	config.DB.AutoMigrate(&models.Category{}, &models.Product{}, &models.Booking{})

	if *clear {
		clearSampleData(config.DB, *confirm)
		return
	}
	createSampleData(config.DB)
}

func createSampleData(db *gorm.DB) {
	sessions := getOrCreateCategory(db, "Shiatsu Sessions", "Professional shiatsu massage sessions")
	vouchers := getOrCreateCategory(db, "Gift Vouchers", "Gift vouchers for shiatsu sessions")

	minutes := func(m int) *int { return &m }

	products := []models.Product{
		{
			CategoryID:      sessions.ID,
			Name:            "30-Minute Shiatsu Session",
			Description:     "A relaxing 30-minute shiatsu session perfect for stress relief and tension release.",
			Price:           35.00,
			DurationMinutes: minutes(30),
		},
		{
			CategoryID:      sessions.ID,
			Name:            "60-Minute Shiatsu Session",
			Description:     "A comprehensive 60-minute shiatsu session for deep relaxation and full body treatment.",
			Price:           65.00,
			DurationMinutes: minutes(60),
		},
		{
			CategoryID:      sessions.ID,
			Name:            "90-Minute Extended Session",
			Description:     "An extended 90-minute session for maximum relaxation and therapeutic benefits.",
			Price:           95.00,
			DurationMinutes: minutes(90),
		},
		{
			CategoryID:  vouchers.ID,
			Name:        "£50 Gift Voucher",
			Description: "A gift voucher worth £50 that can be used towards any shiatsu session.",
			Price:       50.00,
		},
		{
			CategoryID:  vouchers.ID,
			Name:        "£100 Gift Voucher",
			Description: "A gift voucher worth £100 that can be used towards any shiatsu session.",
			Price:       100.00,
		},
	}

	for _, p := range products {
		var existing models.Product
		err := db.First(&existing, "name = ?", p.Name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("lookup product %q: %v", p.Name, err)
		}
		p.IsActive = true
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("create product %q: %v", p.Name, err)
		}
		log.Printf("Created product: %s - £%.2f", p.Name, p.Price)
	}

	log.Println("Sample data created successfully!")
}

func getOrCreateCategory(db *gorm.DB, name, description string) models.Category {
	var category models.Category
	err := db.First(&category, "name = ?", name).Error
	if err == nil {
		return category
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("lookup category %q: %v", name, err)
	}
	category = models.Category{Name: name, Description: description}
	if err := db.Create(&category).Error; err != nil {
		log.Fatalf("create category %q: %v", name, err)
	}
	log.Printf("Created category: %s", name)
	return category
}

func clearSampleData(db *gorm.DB, confirmed bool) {
	if !confirmed {
		log.Println("This will delete ALL products and categories. Use -confirm to proceed.")
		return
	}

	var productCount, categoryCount int64
	db.Model(&models.Product{}).Count(&productCount)
	db.Model(&models.Category{}).Count(&categoryCount)

	if err := db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		log.Fatalf("delete products: %v", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
		log.Fatalf("delete categories: %v", err)
	}

	log.Printf("Deleted %d products and %d categories.", productCount, categoryCount)
}
