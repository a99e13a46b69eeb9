package models

import "testing"

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		year, month string
		want        Period
		wantErr     bool
	}{
		{"2024", "3", Period{2024, 3}, false},
		{"2024", "12", Period{2024, 12}, false},
		{"2024", "01", Period{2024, 1}, false},
		{"2024", "0", Period{}, true},
		{"2024", "13", Period{}, true},
		{"2024", "abc", Period{}, true},
		{"24", "5", Period{}, true},
		{"", "5", Period{}, true},
	}
	for _, c := range cases {
		got, err := ParsePeriod(c.year, c.month)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q, %q): expected error", c.year, c.month)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q, %q): %v", c.year, c.month, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParsePeriod(%q, %q) = %+v, want %+v", c.year, c.month, got, c.want)
		}
	}
}

func TestPeriodKey(t *testing.T) {
	if got := (Period{2024, 3}).Key(); got != "2024-03" {
		t.Errorf("Key() = %q, want 2024-03", got)
	}
	if got := (Period{2025, 11}).Key(); got != "2025-11" {
		t.Errorf("Key() = %q, want 2025-11", got)
	}
}
