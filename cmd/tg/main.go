package main

import (
	"fmt"
	"log/slog"
	"os"

	"time-tagger/internal/api"
	"time-tagger/internal/cli"
	"time-tagger/internal/config"
	"time-tagger/internal/services"
)

func main() {
	root := cli.NewRootCommand(newBusinessAPI)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newBusinessAPI opens the configured database and wires the services on top of it
func newBusinessAPI(cfg *config.Config, logger *slog.Logger) (api.BusinessAPI, func() error, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating repository: %w", err)
	}

	container := services.NewServiceContainer(repo, cfg, logger)
	return api.NewBusinessAPI(container), repo.Close, nil
}
