package receipts

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uren/internal/jortt"
)

type fakeSource struct {
	pages    map[int]jortt.ExpensePage
	files    map[string]string
	pageErr  error
	fetchErr error
	listed   []int
}

func (f *fakeSource) ListExpensePage(_ context.Context, year, page int) (jortt.ExpensePage, error) {
	if f.pageErr != nil {
		return jortt.ExpensePage{}, f.pageErr
	}
	f.listed = append(f.listed, page)
	return f.pages[page], nil
}

func (f *fakeSource) DownloadReceipt(_ context.Context, url string) (io.ReadCloser, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	content, ok := f.files[url]
	if !ok {
		return nil, errors.New("no such receipt")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func receipt(url, name string) *jortt.ReceiptRecord {
	return &jortt.ReceiptRecord{OriginalURL: url, Description: name}
}

func TestDownloadYear(t *testing.T) {
	source := &fakeSource{
		pages: map[int]jortt.ExpensePage{
			1: {
				TotalPages: 2,
				Expenses: []jortt.Expense{
					{LedgerAccountName: "Hosting", Description: "Server", ReceiptRecord: receipt("/r/1.pdf", "invoice-1.pdf")},
					{LedgerAccountName: "Lunch", Description: "No receipt"},
				},
			},
			2: {
				TotalPages: 2,
				Expenses: []jortt.Expense{
					{LedgerAccountName: "Telecom", Description: "Phone", ReceiptRecord: receipt("/r/2.pdf", "invoice-2.pdf")},
				},
			},
		},
		files: map[string]string{
			"/r/1.pdf": "one",
			"/r/2.pdf": "two",
		},
	}

	dir := t.TempDir()
	d := NewDownloader(source, dir, nil)
	stats, err := d.DownloadYear(context.Background(), 2023)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if stats.Pages != 2 || stats.Downloaded != 2 || stats.Missing != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(source.listed) != 2 || source.listed[0] != 1 || source.listed[1] != 2 {
		t.Fatalf("pages visited out of order: %v", source.listed)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2023", "invoice-1.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one" {
		t.Fatalf("unexpected content %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "2023", "invoice-2.pdf")); err != nil {
		t.Fatal(err)
	}
}

func TestDownloadYearSinglePage(t *testing.T) {
	source := &fakeSource{
		pages: map[int]jortt.ExpensePage{
			1: {TotalPages: 1, Expenses: []jortt.Expense{
				{Description: "a", ReceiptRecord: receipt("/r/1.pdf", "a.pdf")},
			}},
		},
		files: map[string]string{"/r/1.pdf": "x"},
	}
	d := NewDownloader(source, t.TempDir(), nil)
	stats, err := d.DownloadYear(context.Background(), 2023)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Pages != 1 {
		t.Fatalf("expected one page visit, got %d", stats.Pages)
	}
}

func TestDownloadYearDuplicateNames(t *testing.T) {
	source := &fakeSource{
		pages: map[int]jortt.ExpensePage{
			1: {TotalPages: 1, Expenses: []jortt.Expense{
				{Description: "a", ReceiptRecord: receipt("/r/1.pdf", "bon.pdf")},
				{Description: "b", ReceiptRecord: receipt("/r/2.pdf", "bon.pdf")},
			}},
		},
		files: map[string]string{"/r/1.pdf": "x", "/r/2.pdf": "y"},
	}
	dir := t.TempDir()
	d := NewDownloader(source, dir, nil)
	if _, err := d.DownloadYear(context.Background(), 2023); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bon.pdf", "bon-1.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, "2023", name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestDownloadYearListFailure(t *testing.T) {
	source := &fakeSource{pageErr: errors.New("boom")}
	d := NewDownloader(source, t.TempDir(), nil)
	if _, err := d.DownloadYear(context.Background(), 2023); err == nil {
		t.Fatal("expected error")
	}
}

func TestDownloadYearFetchFailure(t *testing.T) {
	source := &fakeSource{
		pages: map[int]jortt.ExpensePage{
			1: {TotalPages: 1, Expenses: []jortt.Expense{
				{Description: "a", ReceiptRecord: receipt("/r/1.pdf", "a.pdf")},
			}},
		},
		fetchErr: errors.New("boom"),
	}
	d := NewDownloader(source, t.TempDir(), nil)
	if _, err := d.DownloadYear(context.Background(), 2023); err == nil {
		t.Fatal("expected error")
	}
}

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"invoice.pdf", "invoice.pdf"},
		{"../../etc/passwd", "_.._etc_passwd"},
		{"a/b\\c", "a_b_c"},
		{"  ", "receipt"},
		{"", "receipt"},
	}
	for i, tc := range cases {
		if got := safeFileName(tc.in); got != tc.want {
			t.Fatalf("case %d: safeFileName(%q) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}
