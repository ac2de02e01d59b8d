package db

import (
	"airline/src/config"
	"airline/src/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDb returns the shared gorm handle, opening it on first use.
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey regardless of driver; the booking engine's
// code-collision retry depends on that.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	cfg := &gorm.Config{TranslateError: true}
	var dialector gorm.Dialector
	if config.GetDriver() == "sqlite" {
		dialector = sqlite.Open(config.GetDSN())
	} else {
		dialector = postgres.Open(config.GetDSN())
	}
	_db, err := gorm.Open(dialector, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("error connecting to database")
	}
	sqlDB, err := _db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("error establishing connection to database")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

// NewDB replaces the shared handle; tests use it to point the package at
// a mock or in-memory database.
func NewDB(newdb *gorm.DB) {
	db = newdb
}

// Migrate creates or updates the schema for every entity the engine
// stores.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(
		&models.Airplane{},
		&models.Flight{},
		&models.Reservation{},
	)
}
