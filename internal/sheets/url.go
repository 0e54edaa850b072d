package sheets

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNotSheetURL is returned alongside the unchanged input when a link does not
// look like a Google Sheets share URL.
var ErrNotSheetURL = errors.New("not a Google Sheets share URL")

var (
	sheetIDPattern = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)([/?#].*)?$`)
	gidPattern     = regexp.MustCompile(`[?#&]gid=(\d+)`)
)

// ExportURL converts a spreadsheet share link into its CSV export URL.
//
//	https://docs.google.com/spreadsheets/d/<ID>/edit#gid=<N>
//	  -> https://docs.google.com/spreadsheets/d/<ID>/export?gid=<N>&format=csv
//
// The sheet tab (gid) is kept when present in the query or fragment. Links that
// do not match are returned trimmed but otherwise unchanged, with ErrNotSheetURL.
func ExportURL(raw string) (string, error) {
	link := strings.TrimSpace(raw)
	m := sheetIDPattern.FindStringSubmatch(link)
	if m == nil {
		return link, ErrNotSheetURL
	}
	var b strings.Builder
	b.WriteString("https://docs.google.com/spreadsheets/d/")
	b.WriteString(m[1])
	b.WriteString("/export?")
	if g := gidPattern.FindStringSubmatch(m[2]); g != nil {
		b.WriteString("gid=")
		b.WriteString(g[1])
		b.WriteString("&")
	}
	b.WriteString("format=csv")
	return b.String(), nil
}
