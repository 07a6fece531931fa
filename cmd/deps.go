package cmd

import (
	"errors"
	"fmt"

	"github.com/classmark/classmark/internal/config"
	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/database/mariadb"
	"github.com/classmark/classmark/internal/database/postgres"
)

// deps bundles the shared backends a command needs.
type deps struct {
	cfg        *config.Config
	pool       *postgres.Pool
	roster     database.RosterWriter
	rosterSrc  database.RosterReader // lookup source for gallery names
	timetable  database.ScheduleWriter
	attendance database.AttendanceStore
	embeddings database.EmbeddingCache
	sis        *mariadb.Roster
}

// openDeps connects to PostgreSQL, runs migrations and builds the
// repositories. When SIS_DATABASE_URL is set, gallery name lookups go to the
// external student information system instead of the local roster.
func openDeps() (*deps, error) {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	d := &deps{
		cfg:        cfg,
		pool:       pool,
		roster:     postgres.NewRosterRepository(pool),
		timetable:  postgres.NewTimetableRepository(pool),
		attendance: postgres.NewAttendanceRepository(pool),
		embeddings: postgres.NewEmbeddingRepository(pool),
	}
	d.rosterSrc = d.roster

	if cfg.SIS.DatabaseURL != "" {
		sis, err := mariadb.Open(cfg.SIS.DatabaseURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to SIS: %w", err)
		}
		d.sis = sis
		d.rosterSrc = sis
		fmt.Println("Using external SIS roster")
	}

	return d, nil
}

// Close releases the database connections.
func (d *deps) Close() {
	if d.sis != nil {
		d.sis.Close()
	}
	d.pool.Close()
}
