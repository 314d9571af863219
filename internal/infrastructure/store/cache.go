package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/catsec/phoneinfo/internal/domain"
)

// CacheStore keeps one table per provider, one row per phone number. The
// flattened provider fields are stored as a JSON payload; writes are upserts
// keyed by phone number, so a race between two lookups ends in
// last-write-wins, never a merged row.
type CacheStore struct {
	db *sql.DB
}

// NewCacheStore wraps an open database.
func NewCacheStore(db *sql.DB) *CacheStore {
	return &CacheStore{db: db}
}

// InitProvider creates the cache table for a provider if it does not exist.
func (s *CacheStore) InitProvider(ctx context.Context, provider string) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			phone_number TEXT PRIMARY KEY,
			claimed_name TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL DEFAULT '{}',
			fetched_at TEXT NOT NULL DEFAULT ''
		)`, cacheTable(provider))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating cache table for %s: %w", provider, err)
	}
	return nil
}

// Get returns the cached record for (provider, phone), or ErrCacheMiss.
func (s *CacheStore) Get(ctx context.Context, provider, phone string) (*domain.CacheRecord, error) {
	stmt := fmt.Sprintf(
		"SELECT claimed_name, payload, fetched_at FROM %s WHERE phone_number = ?",
		cacheTable(provider))

	var claimedName, payload, fetchedAt string
	err := s.db.QueryRowContext(ctx, stmt, phone).Scan(&claimedName, &payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s cache: %w", provider, err)
	}

	fields := make(map[string]string)
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("decoding %s cache payload: %w", provider, err)
	}

	rec := &domain.CacheRecord{
		PhoneNumber: phone,
		ClaimedName: claimedName,
		Fields:      fields,
	}
	if fetchedAt != "" {
		t, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("decoding %s cache timestamp: %w", provider, err)
		}
		rec.FetchedAt = t
	}
	return rec, nil
}

// Put overwrites the record for (provider, rec.PhoneNumber).
func (s *CacheStore) Put(ctx context.Context, provider string, rec domain.CacheRecord) error {
	payload, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encoding %s cache payload: %w", provider, err)
	}

	fetchedAt := ""
	if !rec.FetchedAt.IsZero() {
		fetchedAt = rec.FetchedAt.UTC().Format(time.RFC3339)
	}

	stmt := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (phone_number, claimed_name, payload, fetched_at)
		VALUES (?, ?, ?, ?)`, cacheTable(provider))
	if _, err := s.db.ExecContext(ctx, stmt, rec.PhoneNumber, rec.ClaimedName, string(payload), fetchedAt); err != nil {
		return fmt.Errorf("writing %s cache: %w", provider, err)
	}
	return nil
}

// UpdateClaimedName rewrites only the claimed name of an existing record.
// The fetch timestamp is untouched, so the record's freshness is unchanged.
func (s *CacheStore) UpdateClaimedName(ctx context.Context, provider, phone, claimedName string) error {
	stmt := fmt.Sprintf("UPDATE %s SET claimed_name = ? WHERE phone_number = ?", cacheTable(provider))
	if _, err := s.db.ExecContext(ctx, stmt, claimedName, phone); err != nil {
		return fmt.Errorf("updating %s claimed name: %w", provider, err)
	}
	return nil
}

// cacheTable derives the table name for a provider, keeping only characters
// that are safe to interpolate into SQL.
func cacheTable(provider string) string {
	safe := make([]rune, 0, len(provider))
	for _, r := range provider {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			safe = append(safe, r)
		}
	}
	return string(safe) + "_cache"
}
