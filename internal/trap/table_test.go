package trap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSVPadsShortRows(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\ufeffa, b ,c\n1,2\n"), "x.csv", 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Index("a") != 0 || tbl.Index("b") != 1 || tbl.Index("missing") != -1 {
		t.Fatalf("unexpected header: %q", tbl.Header)
	}
	if len(tbl.Rows) != 1 || len(tbl.Rows[0]) != 3 || tbl.Rows[0][2] != "" {
		t.Fatalf("expected padded row, got %q", tbl.Rows)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""), "empty.csv", ',')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Header) != 0 || len(tbl.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", tbl)
	}
}

func writeXLSX(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	p := filepath.Join(t.TempDir(), "trap.xlsx")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestReadFileXLSX(t *testing.T) {
	header := make([]any, 0, len(RequiredColumns))
	for _, c := range RequiredColumns {
		header = append(header, c)
	}
	p := writeXLSX(t, "Trials", [][]any{
		header,
		{"2024-05-01 09:00", "adult", "left", "geosmin", "water", 30, 12, 3, 40, 10, "FALSE"},
	})
	tbl, err := ReadFile(p, "")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	recs, _, err := Clean(tbl, CleanOptions{})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(recs) != 1 || recs[0].Odor != "geosmin" || recs[0].OdorFlies != 12 || recs[0].OdorPct != 40 {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if _, err := ReadFile(p, "nope"); err == nil || !strings.Contains(err.Error(), "Available sheets: Trials") {
		t.Fatalf("expected sheet-not-found error, got %v", err)
	}
}

func TestReadFileTSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "trap.tsv")
	body := strings.ReplaceAll(sheetHeader, ",", "\t") + "\n" +
		strings.Join([]string{"t1", "adult", "left", "A", "oil", "10", "5", "1", "50", "10", "FALSE", ""}, "\t") + "\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := ReadFile(p, "")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tbl.Name != "trap.tsv" || tbl.Index(ColOdorPct) != 8 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if tbl.Rows[0][3] != "A" {
		t.Fatalf("unexpected odor cell %q", tbl.Rows[0][3])
	}
}
