package models

import "github.com/google/uuid"

// AddonType splits addon line items between the assignment facet
// (feeds total_income) and the lease facet.
type AddonType string

const (
	AddonTypeAssignment AddonType = "assignment"
	AddonTypeLease      AddonType = "lease"
)

// Addon is a contract line item feeding the commission/income recompute.
type Addon struct {
	ID         uuid.UUID `json:"id"`
	Type       AddonType `json:"type"`
	PriceCents int64     `json:"price_cents"`
	TotalCents int64     `json:"total_cents"`
}
