package xlsx

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contare/payslip-reconciler/internal/report"
)

// Writer produces XLSX bytes for the two run datasets.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteConsolidated returns a workbook with one row per matched employee.
func (w *Writer) WriteConsolidated(rep *report.Report) ([]byte, error) {
	start := time.Now()
	const sheet = "Consolidado"

	f, err := newSheet(sheet, []string{
		"CPF", "Nome", "Departamento", "Cargo", "Competência",
		"Bruto Folha", "Bruto Referencial", "Diferença", "Complemento", "Status",
	})
	if err != nil {
		return nil, err
	}

	for i, row := range rep.Consolidated {
		r := i + 2
		writeRow(f, sheet, r,
			row.TaxID,
			row.Name,
			row.Department,
			row.Role,
			row.Period,
			row.PayrollGross.StringFixed(2),
			row.ReferenceGross.StringFixed(2),
			row.Difference.StringFixed(2),
			row.Supplement.StringFixed(2),
			string(row.MatchStatus),
		)
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 34)
	_ = f.SetColWidth(sheet, "C", "D", 20)
	_ = f.SetColWidth(sheet, "E", "I", 16)
	_ = f.SetColWidth(sheet, "J", "J", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	w.logger.Info("export.consolidated.ok",
		"rows", len(rep.Consolidated),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteVerification returns the operator-facing workbook with every employee
// from either source and its annotation.
func (w *Writer) WriteVerification(rep *report.Report) ([]byte, error) {
	start := time.Now()
	const sheet = "Verificação"

	f, err := newSheet(sheet, []string{
		"CPF", "Nome", "Status", "CPF Situação", "Linhas p/ Revisão", "Observação",
	})
	if err != nil {
		return nil, err
	}

	for i, row := range rep.Verification {
		r := i + 2
		writeRow(f, sheet, r,
			row.TaxID,
			row.Name,
			string(row.MatchStatus),
			string(row.TaxIDStatus),
			row.LowConfidenceRows,
			row.Reason,
		)
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 34)
	_ = f.SetColWidth(sheet, "C", "D", 24)
	_ = f.SetColWidth(sheet, "E", "E", 16)
	_ = f.SetColWidth(sheet, "F", "F", 70)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	w.logger.Info("export.verification.ok",
		"rows", len(rep.Verification),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func newSheet(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if def := "Sheet1"; def != sheet {
		_ = f.DeleteSheet(def)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
