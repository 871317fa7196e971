// Package overview runs the monthly hours pipeline: enumerate projects,
// fetch each project's month in parallel, aggregate by day and render
// the calendar table.
package overview

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"uren/internal/core"
	applog "uren/internal/log"
)

type Service struct {
	lister ProjectLister
	stats  StatsReader
	log    *applog.Logger
}

func NewService(lister ProjectLister, stats StatsReader, logger *applog.Logger) *Service {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Service{
		lister: lister,
		stats:  stats,
		log:    logger.WithComponent("overview"),
	}
}

// RenderMonth produces the full day-by-day table for the anchor's month.
// Nothing is cached between calls; every invocation fetches fresh.
//
// Failure policy: any enumeration or per-project fetch error fails the
// whole run. A partial table with only the surviving projects would be
// indistinguishable from a complete one, so none is produced.
func (s *Service) RenderMonth(ctx context.Context, anchor time.Time) (core.MonthTable, error) {
	start := time.Now()

	projects, err := s.lister.ListProjects(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Project enumeration failed", "error", err)
		return core.MonthTable{}, fmt.Errorf("list projects: %w", err)
	}

	// Fan out one stats request per project, join on all of them.
	// Each goroutine writes its own slot, so merge order always equals
	// enumeration order and no locking is needed. errgroup cancels the
	// group context on the first failure.
	months := make([]core.ProjectMonth, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, project := range projects {
		g.Go(func() error {
			pm, err := s.stats.ReadProjectMonth(gctx, project.AggregateID, anchor)
			if err != nil {
				return fmt.Errorf("project %s: %w", project.AggregateID, err)
			}
			months[i] = pm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "Monthly statistics fetch failed", "error", err, "projects", len(projects))
		return core.MonthTable{}, err
	}

	buckets, err := core.AggregateByDay(months)
	if err != nil {
		s.log.ErrorContext(ctx, "Aggregation failed", "error", err)
		return core.MonthTable{}, err
	}

	table := core.BuildMonthTable(anchor, buckets, core.WeekdayNamesNL)
	s.log.InfoContext(ctx, "Rendered monthly overview",
		"year", table.Year,
		"month", int(table.Month),
		"projects", len(projects),
		"days", len(table.Groups),
		"total_hours", table.TotalHours(),
		"duration_ms", time.Since(start).Milliseconds())
	return table, nil
}
