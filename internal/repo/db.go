package repo

import (
	"log"

	"pokerclock/internal/config"
	"pokerclock/internal/model"
	"pokerclock/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.GlobalConfig.Database.DSN
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database",
			zap.Error(err),
		)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// Migrate is shared with the test fixtures, which open sqlite instead.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Tournament{},
		&model.CashGame{},
		&model.DisplayAssignment{},
		&model.TournamentPreset{},
		&model.SettingsSnapshot{},
	)
}
