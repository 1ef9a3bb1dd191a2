package match

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/entity"
)

func block(idx int, taxID string, status constants.TaxIDStatus) *entity.EmployeeBlock {
	return &entity.EmployeeBlock{Index: idx, TaxID: taxID, TaxIDStatus: status}
}

func refRow(row int, taxID, gross string) entity.ReferenceRow {
	return entity.ReferenceRow{RowIndex: row, TaxID: taxID, ReferenceGross: decimal.RequireFromString(gross)}
}

func TestRunBuckets(t *testing.T) {
	blocks := []*entity.EmployeeBlock{
		block(0, "52998224725", constants.TaxIDResolved),
		block(1, "11144477735", constants.TaxIDResolved), // not on roster
		block(2, "", constants.TaxIDUnresolved),
	}
	rows := []entity.ReferenceRow{
		refRow(2, "52998224725", "3400"),
		refRow(3, "12345678901", "2000"), // not on payslip
	}

	res, err := NewMatcher(nil).Run(blocks, rows)
	require.NoError(t, err)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "52998224725", res.Matched[0].Block.TaxID)
	require.Len(t, res.PayrollOnly, 2)
	require.Len(t, res.ReferenceOnly, 1)
	assert.Equal(t, "12345678901", res.ReferenceOnly[0].TaxID)
}

func TestRunInvalidTaxIDNeverJoins(t *testing.T) {
	// The CPF digits exist on the roster, but the payslip copy failed its
	// checksum; it must surface as payroll-only, not silently join.
	blocks := []*entity.EmployeeBlock{block(0, "52998224726", constants.TaxIDInvalid)}
	rows := []entity.ReferenceRow{refRow(2, "52998224726", "3400")}

	res, err := NewMatcher(nil).Run(blocks, rows)
	require.NoError(t, err)
	assert.Empty(t, res.Matched)
	assert.Len(t, res.PayrollOnly, 1)
	assert.Len(t, res.ReferenceOnly, 1)
}

func TestRunDuplicateReferenceKeyFails(t *testing.T) {
	rows := []entity.ReferenceRow{
		refRow(2, "12345678901", "1000"),
		refRow(5, "12345678901", "2000"),
	}
	_, err := NewMatcher(nil).Run(nil, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicateReferenceKey))
}

func TestRunDuplicatePayrollTaxIDFails(t *testing.T) {
	blocks := []*entity.EmployeeBlock{
		block(0, "52998224725", constants.TaxIDResolved),
		block(3, "52998224725", constants.TaxIDResolved),
	}
	_, err := NewMatcher(nil).Run(blocks, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicatePayrollTaxID))
}
