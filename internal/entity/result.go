package entity

import (
	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
)

// ReconciliationResult is the per-employee outcome of one run. Computed once;
// recomputation builds a new value.
type ReconciliationResult struct {
	TaxID          string                `json:"tax_id"`
	Name           string                `json:"name,omitempty"`
	PayrollGross   decimal.Decimal       `json:"payroll_gross"`
	ReferenceGross decimal.Decimal       `json:"reference_gross"`
	Difference     decimal.Decimal       `json:"difference"`
	Supplement     decimal.Decimal       `json:"supplement"`
	MatchStatus    constants.MatchStatus `json:"match_status"`
}
