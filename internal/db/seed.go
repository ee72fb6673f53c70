package db

import (
	"context" // Request-scoped context
	"errors"  // Error matching

	"storefront/internal/domain" // Importing domain models
	"storefront/internal/utils"  // Password hashing

	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

type seedUser struct {
	name, email, password, role string
}

var seedUsers = []seedUser{
	{"Admin User", "admin@example.com", "adminpassword", domain.RoleAdmin},
	{"Regular User", "user@example.com", "password123", domain.RoleUser},
}

var seedProducts = []domain.Product{
	{Name: "DJI Mini 4 Pro", Description: "Compact camera drone with 4K/60fps HDR video and omnidirectional obstacle sensing.", Price: decimal.NewFromInt(9900000), ImageURL: "/dji-mini-4-pro.jpg"},
	{Name: "Sony Alpha a7 III", Description: "Full-frame mirrorless camera with a 24.2MP sensor, 5-axis stabilization and 4K video.", Price: decimal.NewFromInt(25000000), ImageURL: "/sony-a7iii.jpg"},
	{Name: "Logitech MX Master 3S", Description: "Ergonomic precision mouse with the MagSpeed scroll wheel.", Price: decimal.NewFromInt(1500000), ImageURL: "/logitech-mx-master-3s.jpg"},
	{Name: "Apple MacBook Air M3", Description: "Thin and light laptop with the Apple M3 chip and up to 18 hours of battery.", Price: decimal.NewFromInt(18000000), ImageURL: "/macbook-air-m3.jpg"},
	{Name: "Samsung Galaxy S24 Ultra", Description: "Flagship phone with a 200MP camera, built-in S Pen and a titanium frame.", Price: decimal.NewFromInt(21999000), ImageURL: "/samsung-s24-ultra.jpg"},
	{Name: "GoPro HERO12 Black", Description: "Action camera with 5.3K60 video, HyperSmooth 6.0 and 10m waterproofing.", Price: decimal.NewFromInt(6500000), ImageURL: "/gopro-hero12.jpg"},
	{Name: "Dell XPS 15", Description: "Premium 15.6 inch InfinityEdge laptop for creative work.", Price: decimal.NewFromInt(23000000), ImageURL: "/dell-xps-15.jpg"},
	{Name: "Canon EOS R6 Mark II", Description: "Fast full-frame mirrorless camera with advanced autofocus and strong video features.", Price: decimal.NewFromInt(38000000), ImageURL: "/canon-r6-mk2.jpg"},
	{Name: "DJI Mavic 3 Classic", Description: "Professional drone with a Hasselblad 4/3 CMOS camera and long transmission range.", Price: decimal.NewFromInt(27000000), ImageURL: "/dji-mavic-3-classic.jpg"},
	{Name: "LG C3 OLED TV 65-inch", Description: "OLED smart TV with perfect blacks, the a9 Gen6 AI processor and gaming features.", Price: decimal.NewFromInt(28000000), ImageURL: "/lg-c3-oled.jpg"},
	{Name: "HyperX QuadCast S", Description: "USB gaming microphone with four polar patterns, RGB lighting and a built-in pop filter.", Price: decimal.NewFromInt(1800000), ImageURL: "/hyperx-quadcast-s.jpg"},
	{Name: "Bose QuietComfort Earbuds II", Description: "Wireless earbuds with class-leading noise cancellation.", Price: decimal.NewFromInt(3900000), ImageURL: "/bose-qc-earbuds-ii.jpg"},
}

// Seed inserts the default accounts and catalog; rows that already exist are left alone
func Seed(ctx context.Context, db *gorm.DB) error {
	for _, su := range seedUsers {
		var existing domain.User
		err := db.WithContext(ctx).Where("email = ?", su.email).First(&existing).Error
		if err == nil {
			continue // Already seeded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := utils.HashPassword(su.password)
		if err != nil {
			return err
		}
		user := domain.User{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email, "role": user.Role}).Info("Seeded user")
	}
	for _, sp := range seedProducts {
		product := sp // Fresh copy so the hook assigns a new id
		var count int64
		if err := db.WithContext(ctx).Model(&domain.Product{}).Where("name = ?", product.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue // Already seeded
		}
		if err := db.WithContext(ctx).Create(&product).Error; err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("Seeded product")
	}
	return nil
}
