package entity

import (
	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
)

// EmployeeBlock is one employee's slice of the payslip document, enriched by
// the identity resolver and event extractor.
type EmployeeBlock struct {
	Index       int                   `json:"index"`
	Page        int                   `json:"page"`
	TaxID       string                `json:"tax_id"` // digits-only; empty when unresolved
	TaxIDStatus constants.TaxIDStatus `json:"tax_id_status"`
	Name        string                `json:"name,omitempty"`
	Role        string                `json:"role,omitempty"`
	Department  string                `json:"department,omitempty"`
	RawText     string                `json:"-"`

	Events            []PayEvent `json:"events"`
	LowConfidenceRows int        `json:"low_confidence_rows"`
	// Fallback reports whether events came from the non-deterministic
	// fallback extractor rather than pattern matching. FallbackError holds
	// the failure when the fallback was tried and degraded.
	Fallback      bool   `json:"fallback,omitempty"`
	FallbackError string `json:"fallback_error,omitempty"`

	// Printed totals, when the block carries them. Nil when absent.
	TotalEarnings   *decimal.Decimal `json:"total_earnings,omitempty"`
	TotalDeductions *decimal.Decimal `json:"total_deductions,omitempty"`
	NetPay          *decimal.Decimal `json:"net_pay,omitempty"`
}

// PayrollGross sums the EARNING events. Deductions and informational rows are
// excluded: gross reflects earned, not net.
func (b *EmployeeBlock) PayrollGross() decimal.Decimal {
	sum := decimal.Zero
	for _, ev := range b.Events {
		if ev.Kind == constants.Earning {
			sum = sum.Add(ev.Amount)
		}
	}
	return sum
}
