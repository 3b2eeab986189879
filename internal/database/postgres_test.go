package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"001_initial_schema.sql", 1},
		{"002_add_indexes.sql", 2},
		{"045_backfill.sql", 45},
		{"init.sql", 0},
		{"abc_notes.sql", 0},
		{"README", 0},
		{"_leading_underscore.sql", 0},
	}

	for _, tc := range tests {
		if got := migrationVersion(tc.name); got != tc.expected {
			t.Errorf("migrationVersion(%q) = %d, want %d", tc.name, got, tc.expected)
		}
	}
}
