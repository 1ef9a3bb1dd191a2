package entity

import "github.com/shopspring/decimal"

// ReferenceRow is one row of the gross-salary roster. Loaded once per run,
// immutable afterwards.
type ReferenceRow struct {
	RowIndex       int             `json:"row_index"` // 1-based sheet row, for operator messages
	TaxID          string          `json:"tax_id"`    // digits-only
	Name           string          `json:"name,omitempty"`
	ReferenceGross decimal.Decimal `json:"reference_gross"`
	Status         string          `json:"status,omitempty"`
	Department     string          `json:"department,omitempty"`
	Role           string          `json:"role,omitempty"`
}
