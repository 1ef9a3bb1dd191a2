// Package report builds the run's two tabular outputs: the consolidated
// dataset (matched employees, all computed fields) and the verification
// dataset (every employee seen on either side, annotated for the operator).
package report

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/extract"
	"github.com/contare/payslip-reconciler/internal/match"
)

// ConsolidatedRow is one matched employee with every computed field.
type ConsolidatedRow struct {
	TaxID          string
	Name           string
	Department     string
	Role           string
	Period         string
	PayrollGross   decimal.Decimal
	ReferenceGross decimal.Decimal
	Difference     decimal.Decimal
	Supplement     decimal.Decimal
	MatchStatus    constants.MatchStatus
}

// VerificationRow is one employee from either source with its data-quality
// annotation. Reason is operator-facing prose, empty when nothing needs
// attention.
type VerificationRow struct {
	TaxID             string
	Name              string
	MatchStatus       constants.MatchStatus
	TaxIDStatus       constants.TaxIDStatus
	Reason            string
	LowConfidenceRows int
}

// Report is the run output. Verification is always a superset of
// Consolidated by row count.
type Report struct {
	Period       string
	Consolidated []ConsolidatedRow
	Verification []VerificationRow
}

// Reporter assembles the datasets.
type Reporter struct {
	logger *slog.Logger
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// Build combines the match buckets with the computed results. results[i]
// must correspond to matched.Matched[i]; the calculator preserves that order.
func (r *Reporter) Build(matched *match.Result, results []entity.ReconciliationResult, period string) *Report {
	rep := &Report{Period: period}

	for i, pair := range matched.Matched {
		res := results[i]
		rep.Consolidated = append(rep.Consolidated, ConsolidatedRow{
			TaxID:          res.TaxID,
			Name:           res.Name,
			Department:     department(pair),
			Role:           role(pair),
			Period:         period,
			PayrollGross:   res.PayrollGross,
			ReferenceGross: res.ReferenceGross,
			Difference:     res.Difference,
			Supplement:     res.Supplement,
			MatchStatus:    res.MatchStatus,
		})
		rep.Verification = append(rep.Verification, VerificationRow{
			TaxID:             res.TaxID,
			Name:              res.Name,
			MatchStatus:       res.MatchStatus,
			TaxIDStatus:       pair.Block.TaxIDStatus,
			Reason:            matchedReason(pair, res),
			LowConfidenceRows: pair.Block.LowConfidenceRows,
		})
	}

	for _, b := range matched.PayrollOnly {
		rep.Verification = append(rep.Verification, VerificationRow{
			TaxID:             b.TaxID,
			Name:              b.Name,
			MatchStatus:       constants.UnmatchedInPayroll,
			TaxIDStatus:       b.TaxIDStatus,
			Reason:            payrollOnlyReason(b),
			LowConfidenceRows: b.LowConfidenceRows,
		})
	}

	for _, row := range matched.ReferenceOnly {
		rep.Verification = append(rep.Verification, VerificationRow{
			TaxID:       row.TaxID,
			Name:        row.Name,
			MatchStatus: constants.UnmatchedInReference,
			TaxIDStatus: constants.TaxIDResolved,
			Reason:      fmt.Sprintf("roster row %d has no payslip block", row.RowIndex),
		})
	}

	r.logger.Info("report.built",
		"consolidated", len(rep.Consolidated),
		"verification", len(rep.Verification),
	)
	return rep
}

// matchedReason annotates a joined employee with anything still worth
// reviewing; clean rows get an empty reason.
func matchedReason(pair match.Pair, res entity.ReconciliationResult) string {
	var notes []string
	if res.MatchStatus == constants.ZeroDifference {
		notes = append(notes, fmt.Sprintf("difference %s below payable threshold, no payment issued", extract.FormatMoney(res.Difference)))
	}
	if pair.Block.LowConfidenceRows > 0 {
		notes = append(notes, fmt.Sprintf("%d low-confidence line(s) need manual review", pair.Block.LowConfidenceRows))
	}
	if pair.Block.Fallback {
		notes = append(notes, "events extracted by fallback service, verify against source document")
	}
	if pair.Block.FallbackError != "" {
		notes = append(notes, fmt.Sprintf("fallback extraction failed: %s", pair.Block.FallbackError))
	}
	if len(pair.Block.Events) == 0 {
		notes = append(notes, "no events extracted from block, payroll gross is zero")
	}
	if pair.Block.TotalEarnings != nil && !pair.Block.TotalEarnings.Equal(res.PayrollGross) {
		notes = append(notes, fmt.Sprintf("printed earnings total %s differs from extracted sum %s",
			extract.FormatMoney(*pair.Block.TotalEarnings), extract.FormatMoney(res.PayrollGross)))
	}
	return strings.Join(notes, "; ")
}

func payrollOnlyReason(b *entity.EmployeeBlock) string {
	switch b.TaxIDStatus {
	case constants.TaxIDUnresolved:
		return "no CPF found in block"
	case constants.TaxIDInvalid:
		return fmt.Sprintf("CPF %s failed checksum, correct it before matching", b.TaxID)
	default:
		return fmt.Sprintf("CPF %s not present in reference roster", b.TaxID)
	}
}

func department(pair match.Pair) string {
	if pair.Reference.Department != "" {
		return pair.Reference.Department
	}
	return pair.Block.Department
}

func role(pair match.Pair) string {
	if pair.Reference.Role != "" {
		return pair.Reference.Role
	}
	return pair.Block.Role
}
