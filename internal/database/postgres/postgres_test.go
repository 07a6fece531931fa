//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/classmark/classmark/internal/config"
	"github.com/classmark/classmark/internal/database"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		URL:          fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	pool, err := NewPool(cfg)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestRosterRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewRosterRepository(pool)

	t.Run("CreateAndLookup", func(t *testing.T) {
		s := &database.StudentRecord{Enrollment: "cs101", Name: "Anita Rao", Branch: "CSE"}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Failed to create student: %v", err)
		}
		if s.ID == 0 {
			t.Error("expected assigned ID")
		}
		if s.Enrollment != "CS101" {
			t.Errorf("expected normalized enrollment, got %q", s.Enrollment)
		}

		name, found, err := repo.Lookup(ctx, "CS101")
		if err != nil || !found || name != "Anita Rao" {
			t.Errorf("Lookup = (%q, %v, %v); want Anita Rao", name, found, err)
		}

		// Lookup normalizes too.
		if _, found, _ := repo.Lookup(ctx, " cs101 "); !found {
			t.Error("expected lookup with unnormalized code to succeed")
		}
	})

	t.Run("DuplicateEnrollment", func(t *testing.T) {
		s := &database.StudentRecord{Enrollment: "CS101", Name: "Someone Else"}
		if err := repo.Create(ctx, s); err != database.ErrDuplicateStudent {
			t.Errorf("expected ErrDuplicateStudent, got %v", err)
		}
	})

	t.Run("LookupMissing", func(t *testing.T) {
		_, found, err := repo.Lookup(ctx, "NOPE")
		if err != nil || found {
			t.Errorf("expected clean miss, got (%v, %v)", found, err)
		}
	})
}

func TestAttendanceRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewAttendanceRepository(pool)

	t.Run("MarkOncePerClass", func(t *testing.T) {
		inserted, err := repo.Mark(ctx, "Anita Rao", "2026-03-09", "09:15:00", "Mathematics")
		if err != nil || !inserted {
			t.Fatalf("first Mark = (%v, %v); want inserted", inserted, err)
		}

		// Same student, same day, same subject: no second row.
		inserted, err = repo.Mark(ctx, "Anita Rao", "2026-03-09", "09:45:00", "Mathematics")
		if err != nil || inserted {
			t.Fatalf("second Mark = (%v, %v); want not inserted", inserted, err)
		}

		// Different subject on the same day is a fresh row.
		inserted, err = repo.Mark(ctx, "Anita Rao", "2026-03-09", "11:00:00", "Physics")
		if err != nil || !inserted {
			t.Fatalf("different subject Mark = (%v, %v); want inserted", inserted, err)
		}

		records, err := repo.ListByDate(ctx, "2026-03-09")
		if err != nil {
			t.Fatalf("ListByDate failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 rows, got %d", len(records))
		}
		if records[0].Subject != "Physics" {
			t.Errorf("expected newest first, got %s", records[0].Subject)
		}
	})
}

func TestTimetableRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewTimetableRepository(pool)

	w1 := &database.ScheduleWindow{Subject: "Mathematics", Start: "09:00", End: "10:00"}
	w2 := &database.ScheduleWindow{Subject: "Physics", Start: "10:01", End: "11:00"}
	if err := repo.AddWindow(ctx, w1); err != nil {
		t.Fatalf("Failed to add window: %v", err)
	}
	if err := repo.AddWindow(ctx, w2); err != nil {
		t.Fatalf("Failed to add window: %v", err)
	}

	windows, err := repo.ListWindows(ctx)
	if err != nil {
		t.Fatalf("ListWindows failed: %v", err)
	}
	if len(windows) != 2 || windows[0].Subject != "Mathematics" {
		t.Errorf("expected insertion order, got %+v", windows)
	}

	w1.End = "10:30"
	if err := repo.UpdateWindow(ctx, w1); err != nil {
		t.Fatalf("UpdateWindow failed: %v", err)
	}
	if err := repo.DeleteWindow(ctx, w2.ID); err != nil {
		t.Fatalf("DeleteWindow failed: %v", err)
	}

	windows, err = repo.ListWindows(ctx)
	if err != nil {
		t.Fatalf("ListWindows failed: %v", err)
	}
	if len(windows) != 1 || windows[0].End != "10:30" {
		t.Errorf("unexpected timetable state: %+v", windows)
	}
}

func TestEmbeddingRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewEmbeddingRepository(pool)

	embedding := make([]float32, 512)
	for i := range embedding {
		embedding[i] = float32(i) / 512.0
	}

	err := repo.Put(ctx, &database.CachedEmbedding{
		Enrollment: "CS101",
		FileHash:   "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		Embedding:  embedding,
		Dim:        512,
		Model:      "buffalo_l",
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := repo.Get(ctx, "CS101", "da39a3ee5e6b4b0d3255bfef95601890afd80709")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if len(got.Embedding) != 512 || got.Model != "buffalo_l" {
		t.Errorf("unexpected cached entry: dim=%d model=%s", len(got.Embedding), got.Model)
	}

	// Stale hash misses.
	got, err = repo.Get(ctx, "CS101", "0000000000000000000000000000000000000000")
	if err != nil || got != nil {
		t.Errorf("expected clean miss for stale hash, got (%v, %v)", got, err)
	}
}
