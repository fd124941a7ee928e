package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"focustimer/internal/db"
	"focustimer/migrations"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Entries(ctx context.Context) ([]Entry, error)
}

func TestStoresRoundTrip(t *testing.T) {
	stores := map[string]store{
		"sqlite3": newSQLiteRepo(t, db.DriverCGO),
		"sqlite":  newSQLiteRepo(t, db.DriverPure),
		"memory":  NewMemoryStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := s.Get(ctx, "settings"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty store err=%v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, "settings", []byte(`{"focusDuration":25}`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Set(ctx, "settings", []byte(`{"focusDuration":30}`)); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}

			got, err := s.Get(ctx, "settings")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != `{"focusDuration":30}` {
				t.Fatalf("Get() = %s", got)
			}

			entries, err := s.Entries(ctx)
			if err != nil {
				t.Fatalf("Entries() error = %v", err)
			}
			if len(entries) != 1 || entries[0].Key != "settings" || entries[0].Size != len(got) {
				t.Fatalf("Entries() = %+v", entries)
			}
			if entries[0].UpdatedAt.IsZero() {
				t.Fatal("expected updated timestamp")
			}

			if err := s.Remove(ctx, "settings"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, err := s.Get(ctx, "settings"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() after Remove err=%v, want ErrNotFound", err)
			}
		})
	}
}

func TestKVRepositoryRecordsUpdateTime(t *testing.T) {
	repo := newSQLiteRepo(t, db.DriverCGO)
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	if err := repo.Set(context.Background(), "timerState", []byte("{}")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	entries, err := repo.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if !entries[0].UpdatedAt.Equal(fixed) {
		t.Fatalf("UpdatedAt = %v, want %v", entries[0].UpdatedAt, fixed)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, raw := range []string{"2026-03-01T09:30:00Z", "2026-03-01T10:30:00+01:00", "2026-03-01 09:30:00"} {
		got, err := parseTimestamp(raw)
		if err != nil {
			t.Fatalf("parseTimestamp(%q) error = %v", raw, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parseTimestamp(%q) = %v", raw, got)
		}
	}
	if _, err := parseTimestamp("now"); err == nil {
		t.Fatal("parseTimestamp accepted garbage")
	}
}

func newSQLiteRepo(t *testing.T, driver string) *KVRepository {
	t.Helper()
	database, err := db.OpenSQLite(driver, filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if _, err := db.RunMigrations(database, migrations.FS); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewKVRepository(database)
}
