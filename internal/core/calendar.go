package core

import (
	"fmt"
	"time"
)

// WeekdayNamesNL are the weekday labels used in the overview, indexed by
// time.Weekday (Sunday first), matching the labels of the host service.
var WeekdayNamesNL = [7]string{"Zo", "Ma", "Di", "Wo", "Do", "Vr", "Za"}

// MonthNamesNL are the month display names, indexed by time.Month - 1.
var MonthNamesNL = [12]string{
	"Januari", "Februari", "Maart", "April", "Mei", "Juni",
	"Juli", "Augustus", "September", "Oktober", "November", "December",
}

type (
	// Row is one rendered table row. A day without entries still gets a
	// single row with empty project and hours fields.
	Row struct {
		DayLabel string
		Project  string
		Hours    float64
		HasEntry bool

		// Styling markers, precomputed in display order.
		First   bool // first row of its day group
		Weekend bool
		Today   bool
	}

	// DayGroup is the set of rows belonging to one calendar day.
	DayGroup struct {
		Day     int
		Weekday time.Weekday
		Weekend bool
		Today   bool
		Rows    []Row
	}

	// MonthTable is the fully rendered overview for one month: exactly
	// one group per day 1..last-day-of-month, in ascending order.
	MonthTable struct {
		Year   int
		Month  time.Month
		Groups []DayGroup
	}
)

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthTable walks every day of the anchor's month and reconciles
// the calendar against the sparse day buckets. The calendar drives the
// walk, so every day appears exactly once whether or not it has entries.
// The anchor supplies year, month and the day to mark as today.
func BuildMonthTable(anchor time.Time, buckets DayBuckets, names [7]string) MonthTable {
	year, month, today := anchor.Year(), anchor.Month(), anchor.Day()

	table := MonthTable{Year: year, Month: month}
	for day := 1; day <= DaysIn(year, month); day++ {
		key := NewDate(year, month, day)
		weekday := key.Weekday()
		group := DayGroup{
			Day:     day,
			Weekday: weekday,
			Weekend: weekday == time.Saturday || weekday == time.Sunday,
			Today:   day == today,
		}
		label := fmt.Sprintf("%d - %s", day, names[weekday])

		lines := buckets[key]
		if len(lines) == 0 {
			group.Rows = []Row{{
				DayLabel: label,
				First:    true,
				Weekend:  group.Weekend,
				Today:    group.Today,
			}}
		} else {
			group.Rows = make([]Row, 0, len(lines))
			for i, line := range lines {
				group.Rows = append(group.Rows, Row{
					DayLabel: label,
					Project:  line.Project,
					Hours:    line.Hours,
					HasEntry: true,
					First:    i == 0,
					Weekend:  group.Weekend,
					Today:    group.Today,
				})
			}
		}
		table.Groups = append(table.Groups, group)
	}
	return table
}

// TotalHours sums the hours of every entry row in the table.
func (t MonthTable) TotalHours() float64 {
	var total float64
	for _, g := range t.Groups {
		for _, r := range g.Rows {
			if r.HasEntry {
				total += r.Hours
			}
		}
	}
	return total
}
