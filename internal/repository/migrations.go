package repository

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrationsPath is relative to the working directory of the binary.
const DefaultMigrationsPath = "internal/repository/migrations"

// RunMigrations brings the advice history schema up to date. A database left
// dirty by an interrupted run is forced back one version and migrated again.
func RunMigrations(dir, databaseURL string) error {
	if dir == "" {
		dir = DefaultMigrationsPath
	}

	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return fmt.Errorf("open history migrations: %w", err)
	}
	defer m.Close()

	err = up(m)

	var dirty migrate.ErrDirty
	if !errors.As(err, &dirty) {
		return err
	}

	previous := dirty.Version - 1
	if previous < 0 {
		previous = 0
	}
	if err := m.Force(previous); err != nil {
		return fmt.Errorf("reset dirty history schema to version %d: %w", previous, err)
	}

	return up(m)
}

func up(m *migrate.Migrate) error {
	err := m.Up()
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	case errors.As(err, new(migrate.ErrDirty)):
		return err
	default:
		return fmt.Errorf("apply history migrations: %w", err)
	}
}
