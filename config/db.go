package config

import (
	"github.com/addisbingo/cartela-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SetupDatabase connects to postgres and runs migrations.
func SetupDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Round{},
		&models.Transaction{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
