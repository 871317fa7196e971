// Package fixture replays recorded API responses from a local data
// directory, so the overview can be developed and demoed without a live
// session on the invoicing service.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"uren/internal/core"
	"uren/internal/overview"
)

// Ensure interface conformance
var (
	_ overview.ProjectLister = (*Store)(nil)
	_ overview.StatsReader   = (*Store)(nil)
)

type Store struct {
	dir string
}

// New creates a store reading from dir. Expected layout:
// projects.json for the listing, project_<aggregate_id>.json per project.
func New(dir string) *Store {
	return &Store{dir: dir}
}

type (
	projectsFile struct {
		Projects []projectEntry `json:"projects"`
	}

	projectEntry struct {
		AggregateID  string  `json:"aggregate_id"`
		Name         string  `json:"name"`
		CustomerName *string `json:"customer_name"`
	}

	projectMonthFile struct {
		Project projectEntry `json:"project"`
		Records []recordEntry `json:"project_line_item_records"`
	}

	recordEntry struct {
		Date     string  `json:"date"`
		Quantity float64 `json:"quantity"`
	}
)

func (s *Store) ListProjects(_ context.Context) ([]core.Project, error) {
	var file projectsFile
	if err := s.readJSON("projects.json", &file); err != nil {
		return nil, err
	}
	projects := make([]core.Project, 0, len(file.Projects))
	for _, e := range file.Projects {
		projects = append(projects, e.toCore())
	}
	return projects, nil
}

func (s *Store) ReadProjectMonth(_ context.Context, aggregateID string, _ time.Time) (core.ProjectMonth, error) {
	var file projectMonthFile
	if err := s.readJSON("project_"+aggregateID+".json", &file); err != nil {
		return core.ProjectMonth{}, err
	}
	pm := core.ProjectMonth{Project: file.Project.toCore()}
	pm.Project.AggregateID = aggregateID
	for _, rec := range file.Records {
		pm.Records = append(pm.Records, core.LineItem{Date: rec.Date, Quantity: rec.Quantity})
	}
	return pm, nil
}

func (e projectEntry) toCore() core.Project {
	p := core.Project{AggregateID: e.AggregateID, Name: e.Name}
	if e.CustomerName != nil {
		p.CustomerName = *e.CustomerName
	}
	return p
}

func (s *Store) readJSON(name string, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}
