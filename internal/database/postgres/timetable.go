package postgres

import (
	"context"
	"fmt"

	"github.com/classmark/classmark/internal/database"
)

// TimetableRepository implements database.ScheduleWriter on PostgreSQL.
// Windows are returned in insertion order, which doubles as resolution
// priority.
type TimetableRepository struct {
	pool *Pool
}

// NewTimetableRepository creates a timetable repository over the pool.
func NewTimetableRepository(pool *Pool) *TimetableRepository {
	return &TimetableRepository{pool: pool}
}

func (r *TimetableRepository) ListWindows(ctx context.Context) ([]database.ScheduleWindow, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, subject, start_time, end_time, branch, day
		FROM timetable
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timetable: %w", err)
	}
	defer rows.Close()

	var windows []database.ScheduleWindow
	for rows.Next() {
		var w database.ScheduleWindow
		if err := rows.Scan(&w.ID, &w.Subject, &w.Start, &w.End, &w.Branch, &w.Day); err != nil {
			return nil, fmt.Errorf("failed to scan timetable row: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timetable: %w", err)
	}
	return windows, nil
}

func (r *TimetableRepository) AddWindow(ctx context.Context, w *database.ScheduleWindow) error {
	err := r.pool.db.QueryRowContext(ctx, `
		INSERT INTO timetable (subject, start_time, end_time, branch, day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, w.Subject, w.Start, w.End, w.Branch, w.Day).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to add timetable window: %w", err)
	}
	return nil
}

func (r *TimetableRepository) UpdateWindow(ctx context.Context, w *database.ScheduleWindow) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE timetable
		SET subject = $1, start_time = $2, end_time = $3, branch = $4, day = $5
		WHERE id = $6
	`, w.Subject, w.Start, w.End, w.Branch, w.Day, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update timetable window %d: %w", w.ID, err)
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

func (r *TimetableRepository) DeleteWindow(ctx context.Context, id int64) error {
	if _, err := r.pool.db.ExecContext(ctx, "DELETE FROM timetable WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete timetable window %d: %w", id, err)
	}
	return nil
}
