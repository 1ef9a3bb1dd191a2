// Package roster parses the reference gross-salary sheet. Column detection is
// alias-driven: an explicit ordered alias list per canonical field, matched
// case- and diacritic-insensitively, first hit wins.
package roster

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/extract"
	"github.com/contare/payslip-reconciler/internal/identity"
)

// Ordered alias lists. Earlier aliases beat later ones; exact (folded)
// equality beats containment.
var (
	taxIDAliases  = []string{"CPF"}
	grossAliases  = []string{"BRUTO REFERENCIAL", "SALARIO REAL", "BRUTO", "SALARIO"}
	nameAliases   = []string{"NOME", "COLABORADOR", "FUNCIONARIO"}
	statusAliases = []string{"STATUS", "SITUACAO", "ATIVO"}
	deptAliases   = []string{"DEPARTAMENTO", "DEPTO", "SETOR", "AREA"}
	roleAliases   = []string{"CARGO", "FUNCAO"}
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold strips diacritics and upper-cases, so "Salário " and "SALARIO" meet.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// Columns holds the detected 0-based column index per canonical field.
// -1 means the column is absent.
type Columns struct {
	TaxID      int
	Gross      int
	Name       int
	Status     int
	Department int
	Role       int
}

func detect(header []string, aliases []string) int {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = fold(h)
	}
	for _, alias := range aliases {
		for i, h := range folded {
			if h == alias {
				return i
			}
		}
	}
	for _, alias := range aliases {
		for i, h := range folded {
			if h != "" && strings.Contains(h, alias) {
				return i
			}
		}
	}
	return -1
}

// DetectColumns maps the header row to canonical fields. The tax-ID and
// gross-salary columns are required; anything else is optional.
func DetectColumns(header []string) (Columns, error) {
	cols := Columns{
		TaxID:      detect(header, taxIDAliases),
		Gross:      detect(header, grossAliases),
		Name:       detect(header, nameAliases),
		Status:     detect(header, statusAliases),
		Department: detect(header, deptAliases),
		Role:       detect(header, roleAliases),
	}
	if cols.TaxID < 0 {
		return cols, common.WrapError(common.ErrMissingRequiredColumn, "no tax-id (CPF) column in roster header")
	}
	if cols.Gross < 0 {
		return cols, common.WrapError(common.ErrMissingRequiredColumn, "no gross-salary column in roster header")
	}
	return cols, nil
}

// ParseRows converts the sheet (header row first) into reference rows.
// Rows without a CPF or without a parseable gross are skipped with a warning;
// they cannot participate in the join either way.
func ParseRows(rows [][]string, logger *slog.Logger) ([]entity.ReferenceRow, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rows) == 0 {
		return nil, common.WrapError(common.ErrMissingRequiredColumn, "roster sheet is empty")
	}
	cols, err := DetectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	out := make([]entity.ReferenceRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		sheetRow := i + 2 // 1-based, after the header
		taxID := identity.Normalize(cell(row, cols.TaxID))
		if taxID == "" {
			if !rowEmpty(row) {
				logger.Warn("roster.row.no_tax_id", "row", sheetRow)
			}
			continue
		}
		gross, err := extract.ParseMoney(cell(row, cols.Gross))
		if err != nil {
			logger.Warn("roster.row.bad_gross", "row", sheetRow, "error", err)
			continue
		}
		out = append(out, entity.ReferenceRow{
			RowIndex:       sheetRow,
			TaxID:          taxID,
			Name:           cell(row, cols.Name),
			ReferenceGross: gross,
			Status:         cell(row, cols.Status),
			Department:     cell(row, cols.Department),
			Role:           cell(row, cols.Role),
		})
	}
	logger.Info("roster.parsed", "rows", len(out), "skipped", len(rows)-1-len(out))
	return out, nil
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// String implements a compact operator-facing description of the mapping.
func (c Columns) String() string {
	return fmt.Sprintf("cpf=%d gross=%d name=%d status=%d dept=%d role=%d",
		c.TaxID, c.Gross, c.Name, c.Status, c.Department, c.Role)
}
