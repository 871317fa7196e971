package sheets

import (
	"context"

	"uren/internal/core"
)

// OverviewExporter writes a rendered month table to an external
// spreadsheet. Implementations must not touch the invoicing service.
type OverviewExporter interface {
	// ExportMonth replaces the month's sheet content and returns a
	// reference to the written range.
	ExportMonth(ctx context.Context, table core.MonthTable) (ref string, err error)
}
