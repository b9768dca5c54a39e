package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"jobsearch-engine/internal/domain"
)

var workbookHeaders = []string{
	"Title", "Company", "Location", "Posted", "Salary", "JobType", "URL", "Description",
}

// scratchSheet exists only for the moment a sole sheet is being replaced.
const scratchSheet = "__rewrite__"

// Workbook accumulates one sheet per job title across a run. The xlsx file
// is lazily materialized: nothing touches disk until the first non-empty
// result set, so an all-empty run leaves no workbook behind.
type Workbook struct {
	path string
	f    *excelize.File
}

func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Created reports whether any sheet has been added yet.
func (w *Workbook) Created() bool { return w.f != nil }

// AddSheet writes the title's postings as one sheet, replacing a sheet of
// the same name from an earlier run of the same day.
func (w *Workbook) AddSheet(jobTitle string, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	if w.f == nil {
		if err := w.open(); err != nil {
			return err
		}
	}

	name := sheetName(jobTitle)
	replacing := false
	if idx, err := w.f.GetSheetIndex(name); err == nil && idx != -1 {
		// DeleteSheet refuses to remove the last remaining sheet, which
		// would leave an earlier run's extra rows behind the rewrite.
		// Park a scratch sheet so the stale one can always be dropped.
		replacing = true
		if _, err := w.f.NewSheet(scratchSheet); err != nil {
			return err
		}
		if err := w.f.DeleteSheet(name); err != nil {
			return err
		}
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return err
	}
	if replacing {
		if err := w.f.DeleteSheet(scratchSheet); err != nil {
			return err
		}
	}

	row := make([]any, len(workbookHeaders))
	for i, h := range workbookHeaders {
		row[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &row); err != nil {
		return err
	}

	widths := make([]int, len(workbookHeaders))
	for i, h := range workbookHeaders {
		widths[i] = len(h)
	}

	for i, p := range postings {
		cells := []any{
			p.Title, p.Company, p.Location, PostedDisplay(p),
			p.Salary, p.JobType, p.URL, p.Description,
		}
		for col, v := range cells {
			if s, ok := v.(string); ok && len(s) > widths[col] {
				widths[col] = len(s)
			}
		}
		addr := fmt.Sprintf("A%d", i+2)
		if err := w.f.SetSheetRow(name, addr, &cells); err != nil {
			return err
		}
	}

	for col, width := range widths {
		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if width > 80 {
			width = 80
		}
		if err := w.f.SetColWidth(name, letter, letter, float64(width+2)); err != nil {
			return err
		}
	}

	// drop the default sheet excelize creates on a fresh file
	if name != "Sheet1" {
		if idx, err := w.f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
			_ = w.f.DeleteSheet("Sheet1")
		}
	}

	return nil
}

// Save persists the workbook under a scoped file lock, once per job title,
// so a crash mid-run keeps every previously saved sheet intact.
func (w *Workbook) Save() error {
	if w.f == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}

	lock := flock.New(w.path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	return w.f.SaveAs(w.path)
}

func (w *Workbook) open() error {
	if _, err := os.Stat(w.path); err == nil {
		f, err := excelize.OpenFile(w.path)
		if err != nil {
			return err
		}
		w.f = f
		return nil
	}
	w.f = excelize.NewFile()
	return nil
}

// sheet names are capped at 31 characters by the xlsx format
func sheetName(jobTitle string) string {
	name := Slug(jobTitle)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
