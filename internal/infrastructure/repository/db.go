package repository

import (
	"fmt"

	"lmsplatform/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres or sqlite. Duplicate-key errors are translated to gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers anyway; one connection keeps in-memory databases coherent
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Lesson{},
		&domain.ProgressRecord{},
		&domain.Enrollment{},
		&domain.Grade{},
		&domain.Discussion{},
		&domain.Comment{},
		&domain.Reaction{},
		&domain.Submission{},
		&domain.StudentWork{},
	)
}
