// Package mariadb provides a read-only roster backed by an external student
// information system running on MySQL or MariaDB. Deployments that already
// maintain their roster there point SIS_DATABASE_URL at it instead of
// copying students into the local database.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/classmark/classmark/internal/database"
)

// Roster implements database.RosterReader over a MySQL/MariaDB students
// table. It never writes.
type Roster struct {
	db *sql.DB
}

// Open connects to the student information system. dsn uses the
// go-sql-driver format, e.g. "user:pass@tcp(host:3306)/sis?parseTime=true".
func Open(dsn string) (*Roster, error) {
	if dsn == "" {
		return nil, errors.New("SIS database DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SIS database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SIS database: %w", err)
	}

	return &Roster{db: db}, nil
}

func (r *Roster) Lookup(ctx context.Context, enrollment string) (string, bool, error) {
	enrollment = database.NormalizeEnrollment(enrollment)

	var name string
	err := r.db.QueryRowContext(ctx,
		"SELECT name FROM students WHERE UPPER(enrollment) = ?", enrollment).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up student %s in SIS: %w", enrollment, err)
	}
	return name, true, nil
}

func (r *Roster) List(ctx context.Context) ([]database.StudentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, enrollment, name, COALESCE(branch, '')
		FROM students
		ORDER BY enrollment
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list SIS students: %w", err)
	}
	defer rows.Close()

	var students []database.StudentRecord
	for rows.Next() {
		var s database.StudentRecord
		if err := rows.Scan(&s.ID, &s.Enrollment, &s.Name, &s.Branch); err != nil {
			return nil, fmt.Errorf("failed to scan SIS student: %w", err)
		}
		s.Enrollment = database.NormalizeEnrollment(s.Enrollment)
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate SIS students: %w", err)
	}
	return students, nil
}

// Close closes the SIS connection pool.
func (r *Roster) Close() error {
	return r.db.Close()
}
