package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// KVRepository stores opaque values in the kv_entries table.
type KVRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Entry describes one stored key without its value.
type Entry struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db, now: time.Now}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(
		ctx,
		`SELECT value FROM kv_entries WHERE key = ?`,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("get "+key, err)
	}
	return []byte(value), nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO kv_entries (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		     value = excluded.value,
			 updated_at = excluded.updated_at`,
		key,
		string(value),
		formatTimestamp(r.now()),
	)
	if err != nil {
		return storageError("set "+key, err)
	}
	return nil
}

func (r *KVRepository) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return storageError("remove "+key, err)
	}
	return nil
}

// Entries lists every stored key ordered by name.
func (r *KVRepository) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT key, LENGTH(value), updated_at
		 FROM kv_entries
		 ORDER BY key`,
	)
	if err != nil {
		return nil, storageError("list entries", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("iterate entries", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	entry := Entry{}
	var size sql.NullInt64
	var updatedAt string
	if err := s.Scan(&entry.Key, &size, &updatedAt); err != nil {
		return nil, storageError("scan entry", err)
	}
	if size.Valid {
		entry.Size = int(size.Int64)
	}

	parsed, err := parseTimestamp(updatedAt)
	if err != nil {
		return nil, storageError("parse entry updated_at", err)
	}
	entry.UpdatedAt = parsed
	return &entry, nil
}
