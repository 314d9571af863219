package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NicknameStore holds name equivalence classes: a formal name plus the
// comma-joined list of names considered interchangeable with it.
type NicknameStore struct {
	db *sql.DB
}

// NicknameEntry is one stored equivalence class.
type NicknameEntry struct {
	ID         int64  `json:"id"`
	FormalName string `json:"formal_name"`
	AllNames   string `json:"all_names"`
}

// NewNicknameStore wraps an open database.
func NewNicknameStore(db *sql.DB) *NicknameStore {
	return &NicknameStore{db: db}
}

// Init creates the nicknames table if it does not exist.
func (s *NicknameStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS nicknames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			formal_name TEXT NOT NULL,
			all_names TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating nicknames table: %w", err)
	}
	return nil
}

// Seed loads equivalence classes from a JSON file, but only when the table
// is empty. Once any row exists the seed file is never applied again.
// Returns the number of entries loaded.
func (s *NicknameStore) Seed(ctx context.Context, path string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nicknames").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting nicknames: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading nickname seed file: %w", err)
	}

	var entries []NicknameEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parsing nickname seed file: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO nicknames (formal_name, all_names) VALUES (?, ?)",
			e.FormalName, e.AllNames); err != nil {
			return 0, fmt.Errorf("inserting nickname seed entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing nickname seed: %w", err)
	}
	return len(entries), nil
}

// Expand returns the full equivalence class for name: the name itself plus,
// for every stored class it belongs to, the formal name and all its
// nicknames. A name matches a class either as the formal name or as a
// member of the nickname list.
func (s *NicknameStore) Expand(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT formal_name, all_names FROM nicknames")
	if err != nil {
		return nil, fmt.Errorf("reading nicknames: %w", err)
	}
	defer rows.Close()

	results := map[string]struct{}{name: {}}
	for rows.Next() {
		var formal, all string
		if err := rows.Scan(&formal, &all); err != nil {
			return nil, fmt.Errorf("scanning nickname row: %w", err)
		}
		formal = strings.TrimSpace(formal)
		names := splitNames(all)

		member := name == formal
		if !member {
			for _, n := range names {
				if n == name {
					member = true
					break
				}
			}
		}
		if member {
			results[formal] = struct{}{}
			for _, n := range names {
				results[n] = struct{}{}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nicknames: %w", err)
	}

	out := make([]string, 0, len(results))
	for n := range results {
		out = append(out, n)
	}
	return out, nil
}

// List returns all stored equivalence classes.
func (s *NicknameStore) List(ctx context.Context) ([]NicknameEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, formal_name, all_names FROM nicknames ORDER BY formal_name")
	if err != nil {
		return nil, fmt.Errorf("listing nicknames: %w", err)
	}
	defer rows.Close()

	var entries []NicknameEntry
	for rows.Next() {
		var e NicknameEntry
		if err := rows.Scan(&e.ID, &e.FormalName, &e.AllNames); err != nil {
			return nil, fmt.Errorf("scanning nickname row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Add stores a new equivalence class and returns its id.
func (s *NicknameStore) Add(ctx context.Context, formalName, allNames string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO nicknames (formal_name, all_names) VALUES (?, ?)",
		strings.TrimSpace(formalName), strings.TrimSpace(allNames))
	if err != nil {
		return 0, fmt.Errorf("adding nickname entry: %w", err)
	}
	return res.LastInsertId()
}

// Delete removes an equivalence class by id.
func (s *NicknameStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM nicknames WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting nickname entry: %w", err)
	}
	return nil
}

// splitNames splits a comma-joined nickname list, trimming whitespace and
// dropping empty entries.
func splitNames(all string) []string {
	parts := strings.Split(all, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := strings.TrimSpace(p); n != "" {
			names = append(names, n)
		}
	}
	return names
}
