package database

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/zaqqye/attendance_backend/internal/config"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/utils"
)

func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := cfg.AdminUsername
	if username == "" {
		username = "admin"
	}
	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: username,
		Password: hashed,
		Role:     models.RoleAdmin,
		Name:     name,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin:", username)
	return nil
}

// SeedSettings creates the settings row with defaults when it does not exist yet.
func SeedSettings(db *gorm.DB, cfg *config.Config) error {
	var st models.PolicySettings
	err := db.First(&st, models.SettingsID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	st = models.DefaultSettings(cfg.DefaultLocationRadius)
	if err := db.Create(&st).Error; err != nil {
		return err
	}
	log.Printf("Seeded default settings: radius=%.0fm require_location=%v prevent_duplicate=%v",
		st.LocationRadius, st.RequireLocation, st.PreventDuplicate)
	return nil
}
