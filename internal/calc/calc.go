// Package calc computes the supplementary payment for each matched employee.
package calc

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/match"
)

// Calculator applies the payment policy. Threshold is the minimum payable
// difference; anything positive but below it is suppressed and flagged.
type Calculator struct {
	Threshold decimal.Decimal
	logger    *slog.Logger
}

func NewCalculator(threshold decimal.Decimal, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	// Zero is a valid threshold (pay any strictly positive difference);
	// the 0.01 default belongs to config loading, not here.
	return &Calculator{Threshold: threshold, logger: logger}
}

// Compute builds the result for one matched pair.
//
// payrollGross sums EARNING events only. difference is rounded half-to-even
// to 2 decimals so a large payroll doesn't drift in either direction. Policy,
// in order: no negative payments; no sub-threshold payments (flagged
// ZERO_DIFFERENCE for audit); otherwise pay the difference.
func (c *Calculator) Compute(pair match.Pair) entity.ReconciliationResult {
	gross := pair.Block.PayrollGross()
	diff := pair.Reference.ReferenceGross.Sub(gross).RoundBank(2)

	res := entity.ReconciliationResult{
		TaxID:          pair.Block.TaxID,
		Name:           name(pair),
		PayrollGross:   gross,
		ReferenceGross: pair.Reference.ReferenceGross,
		Difference:     diff,
		MatchStatus:    constants.Matched,
		Supplement:     decimal.Zero,
	}

	switch {
	case diff.Sign() <= 0:
		// payroll meets or exceeds reference; never claw back
	case diff.LessThan(c.Threshold):
		res.MatchStatus = constants.ZeroDifference
	default:
		res.Supplement = diff
	}
	return res
}

// ComputeAll keeps input order.
func (c *Calculator) ComputeAll(pairs []match.Pair) []entity.ReconciliationResult {
	out := make([]entity.ReconciliationResult, 0, len(pairs))
	payable := 0
	for _, p := range pairs {
		r := c.Compute(p)
		if r.Supplement.Sign() > 0 {
			payable++
		}
		out = append(out, r)
	}
	c.logger.Info("calc.done", "results", len(out), "payable", payable)
	return out
}

// name prefers what the payslip printed; the roster fills the gap.
func name(pair match.Pair) string {
	if pair.Block.Name != "" {
		return pair.Block.Name
	}
	return pair.Reference.Name
}
