package checkout

import (
	"strings"

	"github.com/erazemk/gearkiosk/internal/model"
)

// NeedsTeacher reports whether a scan of item must be closed out with the
// teacher code instead of a student code. Pending items always do, as do
// out items that are one-time or held by a one-time student.
func NeedsTeacher(item *model.Item, holderOneTime bool) bool {
	if item == nil {
		return false
	}
	switch item.Status {
	case model.ItemStatusPending:
		return true
	case model.ItemStatusOut:
		return item.OneTime || holderOneTime
	}
	return false
}

// HolderIsOneTime reports whether the item's holder is a one-time student in
// students. The holder id wins when present; otherwise names are compared
// ignoring case.
func HolderIsOneTime(item *model.Item, students []model.Student) bool {
	if item == nil || !item.Held() {
		return false
	}
	for i := range students {
		s := &students[i]
		if !s.OneTime {
			continue
		}
		if item.HolderID != nil {
			if *item.HolderID == s.ID {
				return true
			}
			continue
		}
		if model.SameName(item.CurrentUser, s.Name) {
			return true
		}
	}
	return false
}

// RequiresTeacherReturn is NeedsTeacher for an out item evaluated against an
// already loaded student list.
func RequiresTeacherReturn(item *model.Item, students []model.Student) bool {
	if item == nil || item.Status != model.ItemStatusOut {
		return false
	}
	return NeedsTeacher(item, HolderIsOneTime(item, students))
}

// MinFilterLength is the shortest query that narrows a listing.
const MinFilterLength = 2

func normalizeQuery(q string) (string, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	return q, len([]rune(q)) >= MinFilterLength
}

func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// LogMatches reports whether entry matches a free-text query on its item
// code, the item's name or the student. itemNames maps item codes to names.
// Queries shorter than MinFilterLength match everything.
func LogMatches(entry model.LogEntry, itemNames map[string]string, query string) bool {
	q, ok := normalizeQuery(query)
	if !ok {
		return true
	}
	return containsFold(entry.Item, q) ||
		containsFold(itemNames[entry.Item], q) ||
		containsFold(entry.Student, q)
}

// ItemMatches is LogMatches for items: code, name or holder.
func ItemMatches(item model.Item, query string) bool {
	q, ok := normalizeQuery(query)
	if !ok {
		return true
	}
	return containsFold(item.Code, q) ||
		containsFold(item.Name, q) ||
		containsFold(item.CurrentUser, q)
}

// FilterLogs returns the entries matching query, keeping their order.
func FilterLogs(logs []model.LogEntry, items []model.Item, query string) []model.LogEntry {
	if _, ok := normalizeQuery(query); !ok {
		return logs
	}
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.Code] = it.Name
	}

	out := make([]model.LogEntry, 0, len(logs))
	for _, l := range logs {
		if LogMatches(l, names, query) {
			out = append(out, l)
		}
	}
	return out
}
