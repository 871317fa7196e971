package google

import (
	"testing"
	"time"

	"uren/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		year int
		want string
	}{
		{"Uren", 2024, "2024 Uren"},
		{"2024 Uren", 2024, "2024 Uren"},
		{" Uren ", 2023, "2023 Uren"},
		{"", 2024, ""},
	}
	for i, tc := range cases {
		if got := yearPrefixedName(tc.base, tc.year); got != tc.want {
			t.Fatalf("case %d: expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestTableValues(t *testing.T) {
	anchor := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	buckets := core.DayBuckets{
		core.NewDate(2024, time.March, 15): {
			{Project: "Acme | Bob", Hours: 4},
			{Project: "Acme | Bob", Hours: 2},
		},
	}
	table := core.BuildMonthTable(anchor, buckets, core.WeekdayNamesNL)
	values := tableValues(table)

	// Header plus 30 blank days plus 2 entry rows.
	if len(values) != 1+30+2 {
		t.Fatalf("expected 33 rows, got %d", len(values))
	}
	header := values[0]
	if header[0] != "Dag" || header[1] != "Project" || header[2] != "Uren" {
		t.Fatalf("unexpected header %v", header)
	}
	// Day 15 starts after header + 14 blank days.
	row := values[15]
	if row[0] != "15 - Vr" || row[1] != "Acme | Bob" || row[2] != 4.0 {
		t.Fatalf("unexpected entry row %v", row)
	}
	blank := values[1]
	if blank[0] != "1 - Vr" || blank[1] != "" || blank[2] != "" {
		t.Fatalf("unexpected blank row %v", blank)
	}
}
