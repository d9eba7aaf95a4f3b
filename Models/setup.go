package Models

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a gorm connection for the configured driver. The dsn is a
// file path for sqlite and a driver DSN otherwise.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates every table used by the ledger.
func Migrate(db *gorm.DB) error {
	// Tables without foreign keys first
	if err := db.AutoMigrate(
		&User{},
		&FCMToken{},
		&SystemSettings{},
		&Party{},
		&Product{},
		&MarketRate{},
	); err != nil {
		return fmt.Errorf("migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(
		&Transaction{},
		&TransactionItem{},
		&Payment{},
		&AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate ledger tables: %w", err)
	}
	return nil
}

// Connect opens the database and migrates it.
func Connect(driver, dsn string) (*gorm.DB, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
