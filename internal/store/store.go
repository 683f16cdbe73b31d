// Package store contains all database access. Functions are grouped per
// entity; multi-step writes run in a single transaction.
package store

import (
	"time"

	"github.com/erazemk/trgovina/internal/db"
)

// formatTime renders t for binding to datetime columns.
func formatTime(t time.Time) string {
	return db.FormatTime(t)
}

// formatTimePtr renders an optional time for binding, preserving NULL.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := db.FormatTime(*t)
	return &s
}

// DefaultPageSize is used when a list request does not specify a page size.
const DefaultPageSize = 10

// normalizePage clamps page and pageSize to sane values.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// pageBounds returns the LIMIT and OFFSET for a normalized page.
func pageBounds(page, pageSize int) (limit, offset int) {
	return pageSize, (page - 1) * pageSize
}

// endOfDay extends a date-only filter value to cover the whole day, so a
// "to" bound of 2024-01-31 includes rows created at any time that day.
func endOfDay(date string) string {
	return date + " 23:59:59"
}

// startOfDay returns the canonical datetime string for midnight of date.
func startOfDay(date string) string {
	return date + " 00:00:00"
}

// monthStart returns the first instant of the month n months before t.
func monthStart(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, t.Location())
}
