// Package match joins payroll blocks against the reference roster. The
// normalized CPF is the sole join key; names are informational and never
// break ties.
package match

import (
	"fmt"
	"log/slog"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/entity"
)

// Pair is one successful join.
type Pair struct {
	Block     *entity.EmployeeBlock
	Reference entity.ReferenceRow
}

// Result carries the three buckets. None of them is ever silently dropped:
// the reporter surfaces all three.
type Result struct {
	Matched       []Pair
	PayrollOnly   []*entity.EmployeeBlock
	ReferenceOnly []entity.ReferenceRow
}

// Matcher joins blocks to roster rows.
type Matcher struct {
	logger *slog.Logger
}

func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger}
}

// Run builds the CPF lookup and buckets every employee from either side.
// Ambiguous inputs are fatal: a duplicated CPF in the roster
// (ErrDuplicateReferenceKey) or in the payroll document
// (ErrDuplicatePayrollTaxID) would make the join meaningless.
func (m *Matcher) Run(blocks []*entity.EmployeeBlock, rows []entity.ReferenceRow) (*Result, error) {
	lookup := make(map[string]entity.ReferenceRow, len(rows))
	for _, row := range rows {
		if prev, ok := lookup[row.TaxID]; ok {
			return nil, common.WrapError(common.ErrDuplicateReferenceKey,
				fmt.Sprintf("tax id %s on roster rows %d and %d", row.TaxID, prev.RowIndex, row.RowIndex))
		}
		lookup[row.TaxID] = row
	}

	seen := make(map[string]int, len(blocks))
	consumed := make(map[string]bool, len(blocks))
	res := &Result{}

	for _, b := range blocks {
		if b.TaxIDStatus == constants.TaxIDResolved || b.TaxIDStatus == constants.TaxIDInvalid {
			if prev, ok := seen[b.TaxID]; ok {
				return nil, common.WrapError(common.ErrDuplicatePayrollTaxID,
					fmt.Sprintf("tax id %s on payroll blocks %d and %d", b.TaxID, prev, b.Index))
			}
			seen[b.TaxID] = b.Index
		}

		// Only a checksum-valid CPF joins; invalid or unresolved blocks go
		// to the payroll-only bucket for operator correction.
		if b.TaxIDStatus == constants.TaxIDResolved {
			if row, ok := lookup[b.TaxID]; ok {
				res.Matched = append(res.Matched, Pair{Block: b, Reference: row})
				consumed[b.TaxID] = true
				continue
			}
		}
		res.PayrollOnly = append(res.PayrollOnly, b)
	}

	for _, row := range rows {
		if !consumed[row.TaxID] {
			res.ReferenceOnly = append(res.ReferenceOnly, row)
		}
	}

	m.logger.Info("match.done",
		"matched", len(res.Matched),
		"payroll_only", len(res.PayrollOnly),
		"reference_only", len(res.ReferenceOnly),
	)
	return res, nil
}
