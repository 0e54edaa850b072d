package sheets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestReadLinkFileFirstLine(t *testing.T) {
	p := filepath.Join(t.TempDir(), "trap_gsheet_link.txt")
	content := "https://docs.google.com/spreadsheets/d/abc/edit#gid=1\r\nsecond line ignored\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadLinkFile(p)
	if err != nil {
		t.Fatalf("ReadLinkFile: %v", err)
	}
	if got != "https://docs.google.com/spreadsheets/d/abc/edit#gid=1" {
		t.Fatalf("unexpected link: %q", got)
	}
}

func TestReadLinkFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadLinkFile(filepath.Join(dir, "missing.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("   \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadLinkFile(empty); !errors.Is(err, ErrEmptyLinkFile) {
		t.Fatalf("expected ErrEmptyLinkFile, got %v", err)
	}
}
