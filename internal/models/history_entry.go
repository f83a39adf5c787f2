package models

import "time"

// HistoryEntry is one audited before/after record of a named field,
// consumed by financial journals and change-log UIs. Entries for the same
// name form a chain: OldValue/OldUpdatedAt of a new entry must equal
// NewValue/NewUpdatedAt of the previous one (or the contract's creation
// date for the first entry).
type HistoryEntry struct {
	Name         string    `json:"name"`
	OldValue     string    `json:"old_value"`
	OldUpdatedAt time.Time `json:"old_updated_at"`
	NewValue     string    `json:"new_value"`
	NewUpdatedAt time.Time `json:"new_updated_at"`
}
