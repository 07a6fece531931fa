package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/classmark/classmark/internal/database"
)

// RosterRepository implements database.RosterWriter on PostgreSQL.
type RosterRepository struct {
	pool *Pool
}

// NewRosterRepository creates a roster repository over the pool.
func NewRosterRepository(pool *Pool) *RosterRepository {
	return &RosterRepository{pool: pool}
}

func (r *RosterRepository) Lookup(ctx context.Context, enrollment string) (string, bool, error) {
	enrollment = database.NormalizeEnrollment(enrollment)

	var name string
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT name FROM students WHERE enrollment = $1", enrollment).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up student %s: %w", enrollment, err)
	}
	return name, true, nil
}

func (r *RosterRepository) List(ctx context.Context) ([]database.StudentRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, enrollment, name, branch, photo, created_at
		FROM students
		ORDER BY enrollment
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []database.StudentRecord
	for rows.Next() {
		var s database.StudentRecord
		if err := rows.Scan(&s.ID, &s.Enrollment, &s.Name, &s.Branch, &s.Photo, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, nil
}

func (r *RosterRepository) Create(ctx context.Context, s *database.StudentRecord) error {
	s.Enrollment = database.NormalizeEnrollment(s.Enrollment)

	err := r.pool.db.QueryRowContext(ctx, `
		INSERT INTO students (enrollment, name, branch, photo)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, s.Enrollment, s.Name, s.Branch, s.Photo).Scan(&s.ID, &s.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return database.ErrDuplicateStudent
	}
	if err != nil {
		return fmt.Errorf("failed to create student %s: %w", s.Enrollment, err)
	}
	return nil
}

func (r *RosterRepository) Update(ctx context.Context, s *database.StudentRecord) error {
	s.Enrollment = database.NormalizeEnrollment(s.Enrollment)

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE students
		SET enrollment = $1, name = $2, branch = $3, photo = $4
		WHERE id = $5
	`, s.Enrollment, s.Name, s.Branch, s.Photo, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update student %d: %w", s.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *RosterRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete student %d: %w", id, err)
	}
	return nil
}
