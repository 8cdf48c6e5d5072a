package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect bootstraps a SQLite database at the provided filesystem path.
// Foreign keys are enabled so audit relations are enforced at the storage
// layer, and busy_timeout serializes concurrent transition attempts
// instead of failing them immediately.
func Connect(dbPath string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=1&_busy_timeout=5000", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}
