package overview

import (
	"context"
	"time"

	"uren/internal/core"
)

// Ports for the remote invoicing service. The pipeline only sees these,
// so tests and the fixture backend can stand in for the real API.
type (
	// ProjectLister enumerates the active projects.
	ProjectLister interface {
		ListProjects(ctx context.Context) ([]core.Project, error)
	}

	// StatsReader fetches one project's records for the month that
	// contains the anchor date.
	StatsReader interface {
		ReadProjectMonth(ctx context.Context, aggregateID string, anchor time.Time) (core.ProjectMonth, error)
	}
)
