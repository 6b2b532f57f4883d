package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the SQLite database, migrates the schema and seeds
// the character catalog from config.
func OpenAndMigrate(dataSourceName string, catalog []game.Character) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dataSourceName != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection keeps transactions from
	// tripping over "database is locked".
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&game.User{}, &game.Character{}, &game.Move{}, &game.Battle{}, &game.BattleState{}, &game.Challenge{})
	if err != nil {
		return nil, err
	}

	if err := NewSQLiteRepository(db).SeedCatalog(catalog); err != nil {
		return nil, err
	}
	logging.Info("catalog seeded", logging.Fields{"characters": len(catalog)})
	return db, nil
}
