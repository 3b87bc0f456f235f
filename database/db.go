package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"repairshop-backend/models"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, relying on environment")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}
}

func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.HistoryEvent{},
		&models.Payment{},
		&models.Repair{},
		&models.Sale{},
		&models.PurchaseOrder{},
		&models.Expense{},
		&models.CashSession{},
		&models.IdempotencyKey{},
	); err != nil {
		logrus.WithError(err).Fatal("automigrate failed")
	}
}
