package utils

import (
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want string
	}{
		{"one day", base, base.AddDate(0, 0, 1), "1 day"},
		{"days and hours", base, base.Add(51 * time.Hour), "2 days, 3 hours"},
		{"minutes only", base, base.Add(45 * time.Minute), "45 minutes"},
		{"singular units", base, base.Add(25*time.Hour + time.Minute), "1 day, 1 hour, 1 minute"},
		{"months across year end", time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), "3 months"},
		{"full spread", base, time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC), "1 year, 2 months, 3 days, 5 hours, 6 minutes"},
		{"identical timestamps", base, base, ""},
		{"sub-minute difference", base, base.Add(30 * time.Second), ""},
		{"to before from", base.AddDate(0, 0, 1), base, ""},
		{"month-end overflow", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "30 days"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatElapsed(tc.from, tc.to); got != tc.want {
				t.Fatalf("FormatElapsed(%v, %v) = %q, want %q", tc.from, tc.to, got, tc.want)
			}
		})
	}
}
