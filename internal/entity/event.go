package entity

import (
	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
)

// PayEvent is one line item extracted from a payslip block. Immutable once
// extracted; amounts are decimal with 2 fractional digits, never floats.
// Reference is the payslip's reference column (hours, percentage), kept
// verbatim for the receipt echo.
type PayEvent struct {
	Code          string              `json:"code"`
	Description   string              `json:"description"`
	Reference     string              `json:"reference,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
	Kind          constants.EventKind `json:"kind"`
	LowConfidence bool                `json:"low_confidence,omitempty"`
}
