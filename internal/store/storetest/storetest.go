// Package storetest opens throwaway sqlite stores for package tests.
package storetest

import (
	"github.com/frahmantamala/workforce-management/internal/store/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMemoryStore returns a migrated in-memory store. The pool is pinned to a
// single connection so every query sees the same database.
func NewMemoryStore() (*postgres.Store, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	store := postgres.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		return nil, err
	}
	return store, nil
}
