package config

import (
	"fmt"
	"os"

	"time-tagger/internal/repository/sqlite"
)

// CreateRepository opens the record store at GetDatabasePath, creating its
// directory first, and applies the configured query and write timeouts.
func CreateRepository(config *Config) (sqlite.Repository, error) {
	path := config.GetDatabasePath()
	if !config.InMemory() {
		perm := os.FileMode(config.Database.DirPermissions)
		if err := os.MkdirAll(config.Database.Dir, perm); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", config.Database.Dir, err)
		}
	}

	repo, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	repo.SetTimeouts(config.GetQueryTimeout(), config.GetWriteTimeout())
	return repo, nil
}
