package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptLine is a single monetary line on a supplementary receipt.
type ReceiptLine struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Receipt is the data handed to the external PDF template renderer for one
// employee's supplementary payment. Only employees with a positive supplement
// get one.
type Receipt struct {
	ID         uuid.UUID `json:"id"`
	TaxID      string    `json:"tax_id"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	Role       string    `json:"role,omitempty"`
	Period     string    `json:"period"` // MM/YYYY
	Company    string    `json:"company"`

	// Line is the single supplementary-payment item; its amount equals the
	// computed supplement exactly.
	Line ReceiptLine `json:"line"`

	// PayslipEcho mirrors the extracted events so the rendered receipt can
	// show the payroll side it was computed from.
	PayslipEcho    []PayEvent      `json:"payslip_echo,omitempty"`
	ReferenceGross decimal.Decimal `json:"reference_gross"`
	PayrollGross   decimal.Decimal `json:"payroll_gross"`

	// SuggestedFilename is the renderer's output key, derived from period,
	// CPF and name.
	SuggestedFilename string `json:"suggested_filename"`
}
