package postgres

import (
	"context"
	"fmt"

	"github.com/classmark/classmark/internal/database"
)

// AttendanceRepository implements database.AttendanceStore on PostgreSQL.
type AttendanceRepository struct {
	pool *Pool
}

// NewAttendanceRepository creates an attendance repository over the pool.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Mark inserts one attendance row. The unique index on (name, date, subject)
// makes the insert conditional, so two concurrent sessions marking the same
// student race safely: exactly one insert wins.
func (r *AttendanceRepository) Mark(ctx context.Context, name, date, timeOfDay, subject string) (bool, error) {
	result, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO attendance (name, date, time, subject)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, date, subject) DO NOTHING
	`, name, date, timeOfDay, subject)
	if err != nil {
		return false, fmt.Errorf("failed to mark attendance for %s: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check mark result: %w", err)
	}
	return affected == 1, nil
}

func (r *AttendanceRepository) List(ctx context.Context) ([]database.AttendanceRecord, error) {
	return r.list(ctx, `
		SELECT id, name, date, time, subject, created_at
		FROM attendance
		ORDER BY id DESC
	`)
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]database.AttendanceRecord, error) {
	return r.list(ctx, `
		SELECT id, name, date, time, subject, created_at
		FROM attendance
		WHERE date = $1
		ORDER BY id DESC
	`, date)
}

func (r *AttendanceRepository) list(ctx context.Context, query string, args ...any) ([]database.AttendanceRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []database.AttendanceRecord
	for rows.Next() {
		var a database.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.Name, &a.Date, &a.Time, &a.Subject, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}
