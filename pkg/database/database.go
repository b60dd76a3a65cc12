package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meetbook/backend/internal/models"
)

// NewPostgres opens a GORM connection to PostgreSQL and verifies connectivity.
func NewPostgres(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("PostgreSQL connection established")
	return db, nil
}

// Migrate runs automatic migrations for all models, then applies the
// booking-overlap exclusion constraint on PostgreSQL. The constraint is the
// storage-level guarantee that no two active bookings for a room overlap,
// closing the race between concurrent check-then-insert creates.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Organization{}, // parent tables first
		&models.User{},
		&models.Location{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (room_id WITH =, tstzrange(from_time, to_time) WITH &&)
			WHERE (is_active)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply overlap constraint: %w", err)
		}
	}
	return nil
}
