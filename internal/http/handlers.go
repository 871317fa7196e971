package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"uren/internal/amqp"
	"uren/internal/core"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := struct {
		Year      int
		Month     int
		MonthName string
	}{
		Year:      now.Year(),
		Month:     int(now.Month()),
		MonthName: core.MonthNamesNL[now.Month()-1],
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMonthOverview renders the current month's calendar partial.
// Every request runs the full pipeline; nothing is served from cache,
// so the table always reflects what the bookkeeping holds right now.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	table, err := s.overview.RenderMonth(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview error", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="error">Overzicht laden mislukt</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="placeholder">Totaal: ` + formatHours(table.TotalHours()) + ` uur</div></section>`))
		return
	}

	data := struct {
		Table core.MonthTable
		Total string
	}{Table: table, Total: formatHours(table.TotalHours())}

	if err := s.templates.ExecuteTemplate(w, "month_overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "month_overview.html")
		_, _ = w.Write([]byte(`<section id="month-overview" class="month-overview"><div class="error">Overzicht renderen mislukt</div></section>`))
	}
}

// handleRates serves the project rates page and stores submitted rates.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListRates(w, r)
	case http.MethodPost:
		s.handleSaveRate(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListRates(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	projects, err := s.projects.ListProjects(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Project list error", "error", err)
		http.Error(w, "Projecten ophalen mislukt", http.StatusBadGateway)
		return
	}

	rates := map[string]core.Money{}
	if s.rates != nil {
		if rates, err = s.rates.ListRates(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Rate list error", "error", err)
			http.Error(w, "Tarieven ophalen mislukt", http.StatusInternalServerError)
			return
		}
	}

	type row struct {
		AggregateID string
		Name        string
		Rate        string
	}
	data := struct {
		Rows []row
	}{}
	for _, p := range projects {
		rate := ""
		if m, ok := rates[p.AggregateID]; ok {
			rate = formatEuros(m.Cents)
		}
		data.Rows = append(data.Rows, row{
			AggregateID: p.AggregateID,
			Name:        p.DisplayName(),
			Rate:        rate,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "rates.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "rates.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSaveRate(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		http.Error(w, "rate store not configured", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Ongeldig verzoek</div>`))
		return
	}

	aggregateID := sanitizeInput(r.Form.Get("aggregate_id"))
	rateStr := strings.TrimSpace(r.Form.Get("rate"))

	if aggregateID == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Project ontbreekt</div>`))
		return
	}

	cents, err := core.ParseDecimalToCents(rateStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Ongeldig tarief</div>`))
		return
	}

	if err := s.rates.SetRate(r.Context(), aggregateID, core.Money{Cents: cents}); err != nil {
		slog.ErrorContext(r.Context(), "Rate save error", "error", err, "aggregate_id", aggregateID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Opslaan mislukt</div>`))
		return
	}

	_, _ = w.Write([]byte(`<div class="success">Tarief opgeslagen: ` +
		template.HTMLEscapeString(formatEuros(cents)) + ` per uur</div>`))
}

// handleReceiptJob queues a bulk receipt download for one booking year.
func (s *Server) handleReceiptJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.jobs == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<div class="error">Worker niet geconfigureerd</div>`))
		return
	}

	year := time.Now().Year()
	if err := r.ParseForm(); err == nil {
		if v := strings.TrimSpace(r.Form.Get("year")); v != "" {
			if y, err := strconv.Atoi(v); err == nil {
				year = y
			}
		}
	}

	if err := s.jobs.PublishJob(r.Context(), amqp.NewReceiptJob(year)); err != nil {
		slog.ErrorContext(r.Context(), "Receipt job publish error", "error", err, "year", year)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Opdracht versturen mislukt</div>`))
		return
	}

	_, _ = w.Write([]byte(`<div class="success">Bonnen worden opgehaald voor ` + strconv.Itoa(year) + `</div>`))
}

// handleExportJob queues a spreadsheet export of the current month.
func (s *Server) handleExportJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.jobs == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<div class="error">Worker niet geconfigureerd</div>`))
		return
	}

	now := time.Now()
	if err := s.jobs.PublishJob(r.Context(), amqp.NewExportJob(now.Year(), int(now.Month()))); err != nil {
		slog.ErrorContext(r.Context(), "Export job publish error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Opdracht versturen mislukt</div>`))
		return
	}

	_, _ = w.Write([]byte(`<div class="success">Export naar spreadsheet gestart</div>`))
}
