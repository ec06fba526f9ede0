package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/volunteerhub/event-service/internal/config"
	"github.com/volunteerhub/event-service/internal/models"
)

// InitDatabase opens the postgres connection and migrates the schema.
// TranslateError is required so duplicate-key violations surface as
// gorm.ErrDuplicatedKey.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.Environment == "development" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventRole{},
		&models.Registration{},
		&models.DonationType{},
		&models.Donation{},
		&models.UserAvailability{},
	); err != nil {
		return err
	}

	return seedDonationTypes(db)
}

// seedDonationTypes ensures the fixed monetary type exists with its reserved
// id, plus a couple of common in-kind types
func seedDonationTypes(db *gorm.DB) error {
	unitItems := "items"
	seed := []models.DonationType{
		{ID: models.MonetaryDonationTypeID, Name: "Monetary"},
		{Name: "Food", UnitOfMeasure: &unitItems},
		{Name: "Clothing", UnitOfMeasure: &unitItems},
	}

	for _, donationType := range seed {
		var existing models.DonationType
		if err := db.Where("name = ?", donationType.Name).
			Attrs(donationType).
			FirstOrCreate(&existing).Error; err != nil {
			return err
		}
	}

	return nil
}
