package trap

import (
	"strings"
	"testing"
)

const sheetHeader = "Trap Start Time,Stage,Odor Position,Odor,Control,# Flies,Odor # Flies,Control # Flies,Odor Trap %,Control Trap %,Exclude,Notes"

func mustReadCSV(t *testing.T, rows ...string) *Table {
	t.Helper()
	body := sheetHeader + "\n" + strings.Join(rows, "\n") + "\n"
	tbl, err := ReadCSV(strings.NewReader(body), "trap.csv", ',')
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}
