package sheets

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyLinkFile indicates the link file exists but its first line is blank.
var ErrEmptyLinkFile = errors.New("link file is empty")

// ReadLinkFile returns the first line of path with surrounding whitespace removed.
func ReadLinkFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open link file: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read link file: %w", err)
		}
		return "", fmt.Errorf("%s: %w", path, ErrEmptyLinkFile)
	}
	line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
	if line == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyLinkFile)
	}
	return line, nil
}
