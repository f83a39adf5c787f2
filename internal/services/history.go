package services

import (
	"strconv"
	"time"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// The history log engine. Entries for one field name form a chain: each new
// entry's old side must equal the previous entry's new side, so journals can
// replay deltas without gaps even when updates arrive retroactively. Several
// fields recomputed in one operation share a single NewUpdatedAt so reports
// can correlate them.

// PreviouslyRecordedValue returns the last value recorded for the field
// name, or ok=false if the field has never been recorded.
func PreviouslyRecordedValue(c *models.Contract, name string) (string, bool) {
	if e := c.LastHistoryFor(name); e != nil {
		return e.NewValue, true
	}
	return "", false
}

// AppendHistoryEntry appends a chained entry for the field name and returns
// it. The old timestamp is the previous entry's new timestamp, falling back
// to the contract's creation date for a first entry; both sides are resolved
// in the partner timezone.
func AppendHistoryEntry(c *models.Contract, timezone, name, oldValue, newValue string, now time.Time) models.HistoryEntry {
	oldUpdatedAt := utils.ResolveActualDate(timezone, c.CreatedAt)
	if prev := c.LastHistoryFor(name); prev != nil {
		oldValue = prev.NewValue
		oldUpdatedAt = prev.NewUpdatedAt
	}
	entry := models.HistoryEntry{
		Name:         name,
		OldValue:     oldValue,
		OldUpdatedAt: oldUpdatedAt,
		NewValue:     newValue,
		NewUpdatedAt: utils.ResolveActualDate(timezone, now),
	}
	c.History = append(c.History, entry)
	return entry
}

// FormatCents renders a money amount for history storage.
func FormatCents(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ParseCents reads a money amount back out of a history value.
// Malformed values fall back to zero; the chain invariant makes
// them impossible to produce through this engine.
func ParseCents(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
