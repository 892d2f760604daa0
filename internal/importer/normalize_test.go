package importer_test

import (
	"testing"

	"bakeshop/internal/importer"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-03-05", "2026-03-05"},
		{"2026/03/05", "2026-03-05"},
		{"03/05/2026", "2026-03-05"}, // month first
		{"3/5/2026", "2026-03-05"},
		{"03-05-2026", "2026-03-05"},
		{"Mar 5, 2026", "2026-03-05"},
		{"5 Mar 2026", "2026-03-05"},
		{"March 5, 2026", "2026-03-05"},
		{"  2026-03-05  ", "2026-03-05"},
	}
	for _, tc := range tests {
		got, err := importer.NormalizeDate(tc.in)
		if err != nil {
			t.Errorf("NormalizeDate(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "yesterday", "2026-13-40", "05.03.26"} {
		if _, err := importer.NormalizeDate(bad); err == nil {
			t.Errorf("NormalizeDate(%q): expected error", bad)
		}
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.50", "12.50"},
		{"$12.50", "12.50"},
		{"€1.234,56", "1234.56"},
		{"£1,234.56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1.234.567", "1234567.00"}, // repeated dots are grouping
		{"1,234", "1234.00"},        // comma without two trailing digits is grouping
		{"12,50", "12.50"},          // decimal comma
		{"(45.00)", "-45.00"},
		{"-45.00", "-45.00"},
		{"7", "7.00"},
		{"  $ 99.9  ", "99.90"},
	}
	for _, tc := range tests {
		got, err := importer.NormalizeAmount(tc.in)
		if err != nil {
			t.Errorf("NormalizeAmount(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeAmount(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "abc", "12.5x"} {
		if _, err := importer.NormalizeAmount(bad); err == nil {
			t.Errorf("NormalizeAmount(%q): expected error", bad)
		}
	}
}
