// Package receipts bulk-downloads the receipt files attached to a
// year's expenses, walking the service's paginated expense listing.
package receipts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"uren/internal/jortt"
	applog "uren/internal/log"
)

// Source is the slice of the API client the downloader needs.
type Source interface {
	ListExpensePage(ctx context.Context, year, page int) (jortt.ExpensePage, error)
	DownloadReceipt(ctx context.Context, url string) (io.ReadCloser, error)
}

// Stats summarizes one download run.
type Stats struct {
	Pages      int
	Downloaded int
	Missing    int // expenses booked without a receipt
}

type Downloader struct {
	source Source
	dir    string
	log    *applog.Logger
}

func NewDownloader(source Source, dir string, logger *applog.Logger) *Downloader {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Downloader{
		source: source,
		dir:    dir,
		log:    logger.WithComponent("receipts"),
	}
}

// DownloadYear fetches every expense page of the year and stores each
// receipt under <dir>/<year>/. Expenses without a receipt are logged
// and counted, not treated as errors.
func (d *Downloader) DownloadYear(ctx context.Context, year int) (Stats, error) {
	targetDir := filepath.Join(d.dir, strconv.Itoa(year))
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return Stats{}, fmt.Errorf("create receipt directory: %w", err)
	}

	var stats Stats
	seen := make(map[string]int)
	for page := 1; ; page++ {
		pageData, err := d.source.ListExpensePage(ctx, year, page)
		if err != nil {
			return stats, fmt.Errorf("list expenses year=%d page=%d: %w", year, page, err)
		}
		stats.Pages++
		d.log.InfoContext(ctx, "Walking expense page",
			"year", year, "page", page, "total_pages", pageData.TotalPages, "expenses", len(pageData.Expenses))

		for _, expense := range pageData.Expenses {
			label := expense.LedgerAccountName + ": " + strings.ReplaceAll(expense.Description, "\n", " ")
			if expense.ReceiptRecord == nil {
				stats.Missing++
				d.log.WarnContext(ctx, "Expense has no receipt", "expense", label)
				continue
			}
			name := uniqueName(seen, safeFileName(expense.ReceiptRecord.Description))
			if err := d.saveReceipt(ctx, expense.ReceiptRecord.OriginalURL, filepath.Join(targetDir, name)); err != nil {
				return stats, fmt.Errorf("download receipt for %q: %w", label, err)
			}
			stats.Downloaded++
			d.log.DebugContext(ctx, "Receipt saved", "expense", label, "file", name)
		}

		if page >= pageData.TotalPages {
			break
		}
	}

	d.log.InfoContext(ctx, "Receipt download finished",
		"year", year,
		"pages", stats.Pages,
		"downloaded", stats.Downloaded,
		"missing", stats.Missing)
	return stats, nil
}

func (d *Downloader) saveReceipt(ctx context.Context, url, path string) error {
	body, err := d.source.DownloadReceipt(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// safeFileName keeps the receipt's own name but strips anything that
// could escape the target directory.
func safeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "receipt"
	}
	return name
}

// uniqueName appends a counter when two receipts share a file name.
func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}
