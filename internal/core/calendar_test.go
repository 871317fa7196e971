package core

import (
	"fmt"
	"testing"
	"time"
)

func TestDaysIn(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29}, // leap year
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for i, tc := range cases {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Fatalf("case %d: expected %d days, got %d", i, tc.want, got)
		}
	}
}

func TestBuildMonthTableCoversEveryDay(t *testing.T) {
	// Every month of a leap year and a non-leap year: one group per day,
	// ascending, no gaps, no duplicates, empty days get one blank row.
	for _, year := range []int{2023, 2024} {
		for month := time.January; month <= time.December; month++ {
			anchor := time.Date(year, month, 10, 12, 0, 0, 0, time.Local)
			table := BuildMonthTable(anchor, DayBuckets{}, WeekdayNamesNL)
			if len(table.Groups) != DaysIn(year, month) {
				t.Fatalf("%d-%d: expected %d groups, got %d", year, month, DaysIn(year, month), len(table.Groups))
			}
			for i, g := range table.Groups {
				if g.Day != i+1 {
					t.Fatalf("%d-%d: group %d has day %d", year, month, i, g.Day)
				}
				if len(g.Rows) != 1 {
					t.Fatalf("%d-%d day %d: expected one blank row, got %d", year, month, g.Day, len(g.Rows))
				}
				row := g.Rows[0]
				if row.HasEntry || row.Project != "" || !row.First {
					t.Fatalf("%d-%d day %d: unexpected blank row %+v", year, month, g.Day, row)
				}
			}
		}
	}
}

func TestBuildMonthTableWeekendMarkers(t *testing.T) {
	// March 2024 starts on a Friday, so all 7 weekday values occur.
	anchor := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	table := BuildMonthTable(anchor, DayBuckets{}, WeekdayNamesNL)
	for _, g := range table.Groups {
		wantWeekend := g.Weekday == time.Saturday || g.Weekday == time.Sunday
		if g.Weekend != wantWeekend {
			t.Fatalf("day %d (%v): weekend=%v", g.Day, g.Weekday, g.Weekend)
		}
		for _, r := range g.Rows {
			if r.Weekend != wantWeekend {
				t.Fatalf("day %d row has weekend=%v", g.Day, r.Weekend)
			}
		}
	}
}

func TestBuildMonthTableTodayMarker(t *testing.T) {
	anchor := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	table := BuildMonthTable(anchor, DayBuckets{}, WeekdayNamesNL)
	for _, g := range table.Groups {
		if (g.Day == 15) != g.Today {
			t.Fatalf("day %d: today=%v", g.Day, g.Today)
		}
		for _, r := range g.Rows {
			if (g.Day == 15) != r.Today {
				t.Fatalf("day %d row: today=%v", g.Day, r.Today)
			}
		}
	}
}

func TestBuildMonthTableScenario(t *testing.T) {
	// Anchor 2024-03-15 (a Friday), one project with two entries that day.
	anchor := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.Local)
	months := []ProjectMonth{{
		Project: Project{AggregateID: "p1", Name: "Acme", CustomerName: "Bob"},
		Records: []LineItem{
			{Date: "2024-03-15", Quantity: 4},
			{Date: "2024-03-15", Quantity: 2},
		},
	}}
	buckets, err := AggregateByDay(months)
	if err != nil {
		t.Fatal(err)
	}
	table := BuildMonthTable(anchor, buckets, WeekdayNamesNL)

	if len(table.Groups) != 31 {
		t.Fatalf("expected 31 groups for March, got %d", len(table.Groups))
	}

	day15 := table.Groups[14]
	if len(day15.Rows) != 2 {
		t.Fatalf("expected two rows on the 15th, got %d", len(day15.Rows))
	}
	first, second := day15.Rows[0], day15.Rows[1]
	if first.DayLabel != "15 - Vr" || first.Project != "Acme | Bob" || first.Hours != 4 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if !first.First || !first.Today || first.Weekend {
		t.Fatalf("first row markers wrong: %+v", first)
	}
	if second.Hours != 2 || second.First || !second.Today {
		t.Fatalf("second row markers wrong: %+v", second)
	}

	// Saturday the 16th is a weekend with a single blank row.
	day16 := table.Groups[15]
	if !day16.Weekend || day16.Weekday != time.Saturday {
		t.Fatalf("day 16 should be a Saturday weekend: %+v", day16)
	}
	if len(day16.Rows) != 1 || day16.Rows[0].HasEntry {
		t.Fatalf("day 16 should have one blank row: %+v", day16.Rows)
	}
	if day16.Rows[0].DayLabel != "16 - Za" {
		t.Fatalf("unexpected label: %q", day16.Rows[0].DayLabel)
	}

	// Every other day: exactly one blank row.
	for _, g := range table.Groups {
		if g.Day == 15 {
			continue
		}
		if len(g.Rows) != 1 || g.Rows[0].HasEntry {
			t.Fatalf("day %d should be blank: %+v", g.Day, g.Rows)
		}
	}
}

func TestBuildMonthTableRowOrder(t *testing.T) {
	// K entries across projects on one day produce exactly K rows in
	// bucket insertion order.
	anchor := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.Local)
	buckets := DayBuckets{
		NewDate(2024, time.March, 4): {
			{Project: "A", Hours: 1},
			{Project: "B", Hours: 2},
			{Project: "A", Hours: 3},
		},
	}
	table := BuildMonthTable(anchor, buckets, WeekdayNamesNL)
	rows := table.Groups[3].Rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []string{"A", "B", "A"} {
		if rows[i].Project != want {
			t.Fatalf("row %d: expected project %q, got %q", i, want, rows[i].Project)
		}
		if rows[i].First != (i == 0) {
			t.Fatalf("row %d: first=%v", i, rows[i].First)
		}
	}
	if rows[0].Hours != 1 || rows[1].Hours != 2 || rows[2].Hours != 3 {
		t.Fatalf("rows out of insertion order: %+v", rows)
	}
}

func TestMonthTableTotalHours(t *testing.T) {
	anchor := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	buckets := DayBuckets{
		NewDate(2024, time.March, 1): {{Project: "A", Hours: 4}, {Project: "B", Hours: 2.5}},
		NewDate(2024, time.March, 2): {{Project: "A", Hours: 1}},
	}
	table := BuildMonthTable(anchor, buckets, WeekdayNamesNL)
	if got := table.TotalHours(); got != 7.5 {
		t.Fatalf("expected 7.5 hours, got %v", got)
	}
}

func TestBuildMonthTableLabels(t *testing.T) {
	anchor := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	table := BuildMonthTable(anchor, DayBuckets{}, WeekdayNamesNL)
	// 2024-03-01 is a Friday; spot-check the first week's labels.
	want := []string{"1 - Vr", "2 - Za", "3 - Zo", "4 - Ma", "5 - Di", "6 - Wo", "7 - Do"}
	for i, label := range want {
		if got := table.Groups[i].Rows[0].DayLabel; got != label {
			t.Fatalf("day %d: expected %q, got %q", i+1, label, got)
		}
	}
	// Labels stay consistent with the weekday index for the whole month.
	for _, g := range table.Groups {
		wantLabel := fmt.Sprintf("%d - %s", g.Day, WeekdayNamesNL[g.Weekday])
		if g.Rows[0].DayLabel != wantLabel {
			t.Fatalf("day %d: label %q", g.Day, g.Rows[0].DayLabel)
		}
	}
}
