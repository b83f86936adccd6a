package kiosk

import (
	"fmt"
	"strings"

	"github.com/erazemk/gearkiosk/internal/model"
)

// ParseRoster reads pasted CSV or TSV text with one "name,PIN" pair per line.
// A line containing a tab is split on tabs, otherwise on commas. Blank lines
// are ignored; bad lines are reported by their 1-based number among the
// non-blank lines.
func ParseRoster(text string) ([]RosterEntry, []string) {
	var (
		entries []RosterEntry
		errs    []string
		n       int
	)

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n++

		sep := ","
		if strings.Contains(line, "\t") {
			sep = "\t"
		}
		parts := strings.Split(line, sep)
		if len(parts) != 2 {
			errs = append(errs, fmt.Sprintf("line %d: expected 2 fields (name, PIN), got %d", n, len(parts)))
			continue
		}

		name, code := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" || code == "" {
			errs = append(errs, fmt.Sprintf("line %d: name or PIN is empty", n))
			continue
		}
		if model.ValidateCode(code) != nil {
			errs = append(errs, fmt.Sprintf("line %d: %q - PIN must be exactly %d digits", n, name, model.CodeLength))
			continue
		}

		entries = append(entries, RosterEntry{Name: name, Code: code})
	}
	return entries, errs
}
