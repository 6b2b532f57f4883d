package main

import (
	"github.com/lyfstyl-ux/fightcaster/internal/config"
	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

func loadEnvOrExit() config.Env {
	env, err := config.LoadEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	level, err := logging.ParseLevel(env.LogLevel)
	if err != nil {
		logging.Warn("ignoring log level", logging.Fields{constants.EnvLogLevel: env.LogLevel})
	}
	logging.SetLevel(level)
	return env
}

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfigOrDefault(path)
	if err != nil {
		logging.Fatal("Missing or invalid fightcaster configuration", err, logging.Fields{
			"config_path": path,
			"hint":        "provide a fightcaster_config.json with a 'character_list' array (name, class, rarity, moves[name,damage,effect,cooldown]) and optional 'server' and 'rules' sections",
		})
	}
	return cfg
}

func createRepositoryOrExit(driver, dbPath string, catalog []game.Character) storage.Repository {
	switch driver {
	case constants.StorageMemory:
		repo := storage.NewMemoryRepository()
		if err := repo.SeedCatalog(catalog); err != nil {
			logging.Fatal("Failed to seed catalog", err, nil)
		}
		return repo
	case constants.StorageSQLite, "":
		db, err := storage.OpenAndMigrate(dbPath, catalog)
		if err != nil {
			logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
		}
		return storage.NewSQLiteRepository(db)
	}
	logging.Fatal("Unknown storage driver", nil, logging.Fields{constants.LogFieldDriver: driver})
	return nil
}
