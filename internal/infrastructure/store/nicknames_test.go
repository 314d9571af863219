package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func testNicknameStore(t *testing.T) *NicknameStore {
	t.Helper()
	s := NewNicknameStore(testDB(t))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nicknames.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNicknameStoreSeed(t *testing.T) {
	ctx := context.Background()
	s := testNicknameStore(t)
	path := writeSeedFile(t, `[
		{"formal_name": "דוד", "all_names": "דוד, דודי, דודו"},
		{"formal_name": "יוסף", "all_names": "יוסף, יוסי"}
	]`)

	n, err := s.Seed(ctx, path)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 2 {
		t.Errorf("Seed loaded %d entries, want 2", n)
	}

	// A second seed against a populated table is a no-op.
	n, err = s.Seed(ctx, path)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if n != 0 {
		t.Errorf("second Seed loaded %d entries, want 0", n)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("List returned %d entries, want 2", len(entries))
	}
}

func TestNicknameStoreSeedMissingFile(t *testing.T) {
	s := testNicknameStore(t)
	n, err := s.Seed(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing seed file should not be an error, got %v", err)
	}
	if n != 0 {
		t.Errorf("Seed loaded %d entries from a missing file", n)
	}
}

func TestNicknameStoreExpand(t *testing.T) {
	ctx := context.Background()
	s := testNicknameStore(t)
	if _, err := s.Add(ctx, "דוד", "דוד, דודי, דודו"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"formal name", "דוד", []string{"דוד", "דודו", "דודי"}},
		{"nickname", "דודי", []string{"דוד", "דודו", "דודי"}},
		{"unknown name includes itself", "משה", []string{"משה"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Expand(ctx, tt.query)
			if err != nil {
				t.Fatalf("Expand(%q): %v", tt.query, err)
			}
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("Expand(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expand(%q) = %v, want %v", tt.query, got, tt.want)
					break
				}
			}
		})
	}
}

func TestNicknameStoreAddListDelete(t *testing.T) {
	ctx := context.Background()
	s := testNicknameStore(t)

	id, err := s.Add(ctx, "משה", "משה, מוישה")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].FormalName != "משה" {
		t.Fatalf("List = %v", entries)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	entries, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List after delete = %v, want empty", entries)
	}
}
