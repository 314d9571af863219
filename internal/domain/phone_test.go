package domain

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"local format", "0501234567", "972501234567", false},
		{"international format", "972501234567", "972501234567", false},
		{"plus prefix", "+972501234567", "972501234567", false},
		{"dashes and spaces", "050-123 4567", "972501234567", false},
		{"dots and parens", "(050).123.4567", "972501234567", false},
		{"empty", "", "", true},
		{"letters", "05O1234567", "", true},
		{"too short", "05012345", "", true},
		{"too long", "9725012345678", "", true},
		{"wrong country code", "440501234567", "", true},
		{"eleven digits local", "05012345678", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Errorf("NormalizePhone(%q) error = %v, want ErrInvalidPhone", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
