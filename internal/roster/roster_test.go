package roster

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contare/payslip-reconciler/internal/common"
)

func TestDetectColumnsAliases(t *testing.T) {
	cols, err := DetectColumns([]string{"Nome", "CPF", "Salário Real", "Situação", "Depto", "Função"})
	require.NoError(t, err)
	assert.Equal(t, 1, cols.TaxID)
	assert.Equal(t, 2, cols.Gross)
	assert.Equal(t, 0, cols.Name)
	assert.Equal(t, 3, cols.Status)
	assert.Equal(t, 4, cols.Department)
	assert.Equal(t, 5, cols.Role)
}

func TestDetectColumnsDiacriticAndCaseInsensitive(t *testing.T) {
	cols, err := DetectColumns([]string{"cpf", "bruto referencial"})
	require.NoError(t, err)
	assert.Equal(t, 0, cols.TaxID)
	assert.Equal(t, 1, cols.Gross)

	cols, err = DetectColumns([]string{"CPF", "SALÁRIO"})
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Gross)
}

func TestDetectColumnsEarlierAliasWins(t *testing.T) {
	// Both BRUTO and BRUTO REFERENCIAL present: the more specific alias is
	// listed first and wins.
	cols, err := DetectColumns([]string{"CPF", "BRUTO", "BRUTO REFERENCIAL"})
	require.NoError(t, err)
	assert.Equal(t, 2, cols.Gross)
}

func TestDetectColumnsMissingRequired(t *testing.T) {
	_, err := DetectColumns([]string{"NOME", "SALARIO"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingRequiredColumn))

	_, err = DetectColumns([]string{"NOME", "CPF"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingRequiredColumn))
}

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"NOME", "CPF", "BRUTO", "DEPARTAMENTO"},
		{"Alana Rosa", "529.982.247-25", "3.400,00", "Fiscal"},
		{"", "", "", ""},                  // blank row, ignored
		{"Sem CPF", "", "1.000,00", "DP"}, // skipped
		{"Bruno Lima", "111.444.777-35", "2.500,00", "DP"},
	}
	out, err := ParseRows(rows, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "52998224725", out[0].TaxID)
	assert.True(t, out[0].ReferenceGross.Equal(decimal.RequireFromString("3400")))
	assert.Equal(t, "Fiscal", out[0].Department)
	assert.Equal(t, 2, out[0].RowIndex)
	assert.Equal(t, 5, out[1].RowIndex)
}

func TestParseRowsEmptySheet(t *testing.T) {
	_, err := ParseRows(nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingRequiredColumn))
}
