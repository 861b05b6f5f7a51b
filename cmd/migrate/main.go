// cmd/migrate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/config"
	"github.com/codr1/courtbook/internal/db"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config.yaml (database.filename is used)")
		dbPath     = flag.String("db", "", "Path to SQLite database, overrides -config")
		command    = flag.String("command", "", "Command to run (up, down, steps, version, force)")
		n          = flag.Int("n", 0, "Step count for steps, version for force")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	path := *dbPath
	if path == "" && *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		path = cfg.Database.Filename
	}
	if path == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	m, err := db.NewMigrator(path)
	if err != nil {
		log.Fatal().Err(err).Str("db", path).Msg("Migration init failed")
	}
	defer m.Close()

	if err := run(m, *command, *n); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
	log.Info().Str("command", *command).Str("db", path).Msg("Migration finished")
}

func run(m *migrate.Migrate, command string, n int) error {
	var err error
	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if n == 0 {
			return fmt.Errorf("steps requires -n")
		}
		err = m.Steps(n)
	case "force":
		err = m.Force(n)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("get version: %w", verr)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
