// Package format renders dates, money, phone numbers and ordinals the way proposal pages display them.
package format

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Date renders an ISO-8601 date as "<day> <month>, <year>" with Portuguese month
// names, e.g. "7 Janeiro, 2025". Empty input yields "". Input that does not parse
// is returned unchanged.
func Date(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	t, ok := parseDate(trimmed)
	if !ok {
		return value
	}
	t = t.UTC()
	return fmt.Sprintf("%d %s, %d", t.Day(), monthNames[int(t.Month())-1], t.Year())
}

// ParseDate parses the date layouts accepted by Date.
func ParseDate(value string) (time.Time, error) {
	t, ok := parseDate(strings.TrimSpace(value))
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}
	return t.UTC(), nil
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
