// Package xlsx adapts the spreadsheet collaborators: it reads the reference
// roster workbook and renders the run datasets as XLSX bytes.
package xlsx

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/roster"
)

// ReadRoster loads the first sheet of the roster workbook and hands its rows
// to the alias-driven parser.
func ReadRoster(path string, logger *slog.Logger) ([]entity.ReferenceRow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("roster.workbook.close_error", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %q: %w", sheets[0], err)
	}

	logger.Info("roster.workbook.read", "path", path, "sheet", sheets[0], "rows", len(rows))
	return roster.ParseRows(rows, logger)
}
