// Package receipt maps computed results into the structures the external
// PDF-template renderer consumes. Only positive supplements produce a
// receipt; zero-value documents are never generated.
package receipt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/match"
)

const supplementCode = "9001"

// Assembler builds renderer payloads.
type Assembler struct {
	Company string
	logger  *slog.Logger
}

func NewAssembler(company string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{Company: company, logger: logger}
}

// Build returns receipts in result order. results[i] must correspond to
// matched.Matched[i].
func (a *Assembler) Build(matched *match.Result, results []entity.ReconciliationResult, period string) []entity.Receipt {
	out := make([]entity.Receipt, 0, len(results))
	for i, res := range results {
		if res.Supplement.Sign() <= 0 {
			continue
		}
		pair := matched.Matched[i]
		rc := entity.Receipt{
			ID:         uuid.New(),
			TaxID:      res.TaxID,
			Name:       res.Name,
			Department: pair.Reference.Department,
			Role:       pair.Reference.Role,
			Period:     period,
			Company:    a.Company,
			Line: entity.ReceiptLine{
				Code:        supplementCode,
				Description: "Complemento Extra-Folha",
				Amount:      res.Supplement,
			},
			PayslipEcho:       pair.Block.Events,
			ReferenceGross:    res.ReferenceGross,
			PayrollGross:      res.PayrollGross,
			SuggestedFilename: Filename(period, res.TaxID, res.Name),
		}
		out = append(out, rc)
	}
	a.logger.Info("receipt.assembled", "receipts", len(out), "results", len(results))
	return out
}

// Filename derives the renderer output key:
// recibo_complementar_<MM-YYYY>_<cpf>_<NOME>. Name is underscored,
// slash-safe and capped so archives stay portable.
func Filename(period, taxID, name string) string {
	comp := strings.ReplaceAll(period, "/", "-")
	if comp == "" {
		comp = "MM-AAAA"
	}
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		n = "COLAB"
	}
	n = strings.ReplaceAll(n, "/", "-")
	n = strings.ReplaceAll(n, " ", "_")
	if len(n) > 30 {
		n = n[:30]
	}
	return fmt.Sprintf("recibo_complementar_%s_%s_%s", comp, taxID, n)
}
