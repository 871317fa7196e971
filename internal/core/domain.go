package core

import (
	"errors"
	"fmt"
	"time"
)

type (
	// Date is a calendar day without a time component. Bucket keys and
	// line item dates both normalize to this type so producer and
	// consumer can never disagree on formatting.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Project is one billable unit as enumerated by the remote service.
	Project struct {
		AggregateID  string
		Name         string
		CustomerName string // empty when the project has no customer
	}

	// LineItem is a single recorded quantity of hours on a date.
	LineItem struct {
		Date     string // YYYY-MM-DD as reported by the remote service
		Quantity float64
	}

	// ProjectMonth holds one project's records for a single month.
	ProjectMonth struct {
		Project Project
		Records []LineItem
	}

	// Line is one (project, hours) pair inside a day bucket.
	Line struct {
		Project string
		Hours   float64
	}

	// DayBuckets maps a calendar day to its lines in insertion order:
	// project fetch order first, record order within a project second.
	DayBuckets map[Date][]Line
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// AggregationError marks a record that cannot be bucketed, typically a
// missing or malformed date. The aggregator is total over well-formed
// input, so seeing one means the remote payload changed shape.
type AggregationError struct {
	Project string
	Err     error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate records for %q: %v", e.Project, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// DateOf truncates an instant to its local calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// DisplayName is the project label used in the overview: the project
// name, joined with the customer name when one is set.
func (p Project) DisplayName() string {
	if p.CustomerName == "" {
		return p.Name
	}
	return p.Name + " | " + p.CustomerName
}

func (p Project) Validate() error {
	if p.AggregateID == "" {
		return errors.New("project without aggregate id")
	}
	if p.Name == "" {
		return errors.New("project without name")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
