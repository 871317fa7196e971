package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Job kinds handled by the worker.
const (
	JobKindReceipts = "receipts"
	JobKindExport   = "export_month"
)

// JobMessage is the envelope for every worker job. Receipt jobs carry
// only the booking year; export jobs carry year and month of the table
// to write to the spreadsheet.
type JobMessage struct {
	Kind        string    `json:"kind"`
	Year        int       `json:"year"`
	Month       int       `json:"month,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewReceiptJob asks the worker to download every receipt booked in the
// given year. The worker walks the paginated expense listing itself, so
// the message only needs the year.
func NewReceiptJob(year int) *JobMessage {
	return &JobMessage{
		Kind:        JobKindReceipts,
		Year:        year,
		RequestedAt: time.Now(),
	}
}

// NewExportJob asks the worker to export the given month's table to the
// configured spreadsheet.
func NewExportJob(year, month int) *JobMessage {
	return &JobMessage{
		Kind:        JobKindExport,
		Year:        year,
		Month:       month,
		RequestedAt: time.Now(),
	}
}

// Validate rejects unknown kinds and implausible dates.
func (m *JobMessage) Validate() error {
	if m.Year < 2000 || m.Year > 2200 {
		return fmt.Errorf("implausible booking year %d", m.Year)
	}
	switch m.Kind {
	case JobKindReceipts:
		return nil
	case JobKindExport:
		if m.Month < 1 || m.Month > 12 {
			return fmt.Errorf("invalid month %d", m.Month)
		}
		return nil
	default:
		return fmt.Errorf("unknown job kind %q", m.Kind)
	}
}

// ToJSON converts the message to JSON bytes
func (m *JobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// JobMessageFromJSON creates a message from JSON bytes
func JobMessageFromJSON(data []byte) (*JobMessage, error) {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
