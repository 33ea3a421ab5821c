package config

import (
	"github.com/cardfolio/cardfolio-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var Database *gorm.DB

func Connect() error {
	var err error
	Database, err = gorm.Open(postgres.Open(Env.DatabaseURL), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	err = Database.AutoMigrate(&models.User{}, &models.Collection{}, &models.Flashcard{})
	if err != nil {
		panic("failed to auto migrate database")
	}

	return nil
}
