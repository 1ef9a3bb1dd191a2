// Package extract turns one payslip block into typed pay events. It is fully
// deterministic: patterns only, no state shared across blocks.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/entity"
)

const moneyPat = `\d{1,3}(?:\.\d{3})*,\d{2}`

var (
	// "8781 SALARIO CONTRATUAL 30,00 1.518,00 P" — extrato layout with a
	// trailing earning/deduction flag.
	flaggedRowRe = regexp.MustCompile(`^(\d{3,4})\s+(.+?)\s+(` + moneyPat + `)\s+(` + moneyPat + `)\s*([PD])$`)
	// "8781 SALARIO CONTRATUAL. 30,00 1.518,00" or with a second value for
	// the deduction column.
	twoColRowRe = regexp.MustCompile(`^(\d{3,4})\s+(.+?)\s+(` + moneyPat + `)\s+(` + moneyPat + `)(?:\s+(` + moneyPat + `))?$`)

	totalEarnRe = regexp.MustCompile(`(?i)Total\s+de\s+Vencimentos\D*(` + moneyPat + `)`)
	totalDedRe  = regexp.MustCompile(`(?i)Total\s+de\s+Descontos\D*(` + moneyPat + `)`)
	netPayRe    = regexp.MustCompile(`(?i)Valor\s+L[ií]quido\D*(` + moneyPat + `)`)

	moneyTokenRe = regexp.MustCompile(moneyPat)
	leadCodeRe   = regexp.MustCompile(`^(\d{3,4})\b`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// Extractor parses pay events out of segmented blocks.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Run scans the block line by line, in order. Matched rows become events;
// lines that carry a money-shaped token but fit no known layout are kept as
// low-confidence events so an operator can review them. Everything else is
// ignored. Printed totals are lifted onto the block and mirrored as
// INFORMATIONAL events.
func (e *Extractor) Run(block *entity.EmployeeBlock) {
	var events []entity.PayEvent
	lowConfidence := 0

	for _, raw := range strings.Split(block.RawText, "\n") {
		line := strings.TrimSpace(spaceRunRe.ReplaceAllString(raw, " "))
		if line == "" {
			continue
		}

		if m := totalEarnRe.FindStringSubmatch(line); m != nil {
			if v, err := ParseMoney(m[1]); err == nil {
				block.TotalEarnings = &v
				events = append(events, informational("Total de Vencimentos", v))
			}
			continue
		}
		if m := totalDedRe.FindStringSubmatch(line); m != nil {
			if v, err := ParseMoney(m[1]); err == nil {
				block.TotalDeductions = &v
				events = append(events, informational("Total de Descontos", v))
			}
			continue
		}
		if m := netPayRe.FindStringSubmatch(line); m != nil {
			if v, err := ParseMoney(m[1]); err == nil {
				block.NetPay = &v
				events = append(events, informational("Valor Líquido", v))
			}
			continue
		}

		if m := flaggedRowRe.FindStringSubmatch(line); m != nil {
			if ev, ok := flaggedEvent(m); ok {
				events = append(events, ev)
				continue
			}
		}
		if m := twoColRowRe.FindStringSubmatch(line); m != nil {
			evs, ok := twoColEvents(m)
			if ok {
				events = append(events, evs...)
				continue
			}
		}

		// Number-shaped token present but no layout matched: malformed
		// monetary line, kept for manual review rather than dropped.
		if tok := moneyTokenRe.FindString(line); tok != "" {
			ev := entity.PayEvent{
				Description:   line,
				Kind:          constants.Informational,
				LowConfidence: true,
			}
			if m := leadCodeRe.FindStringSubmatch(line); m != nil {
				ev.Code = m[1]
			}
			if v, err := ParseMoney(tok); err == nil {
				ev.Amount = v
			}
			events = append(events, ev)
			lowConfidence++
		}
	}

	block.Events = events
	block.LowConfidenceRows = lowConfidence
	e.logger.Debug("extract.block.done",
		"block", block.Index,
		"events", len(events),
		"low_confidence", lowConfidence,
	)
}

func informational(desc string, v decimal.Decimal) entity.PayEvent {
	return entity.PayEvent{Description: desc, Amount: v, Kind: constants.Informational}
}

func flaggedEvent(m []string) (entity.PayEvent, bool) {
	v, err := ParseMoney(m[4])
	if err != nil {
		return entity.PayEvent{}, false
	}
	ev := entity.PayEvent{
		Code:        m[1],
		Description: cleanDescription(m[2]),
		Reference:   m[3],
	}
	if m[5] == "D" {
		ev.Kind = constants.Deduction
		ev.Amount = v.Neg()
	} else {
		ev.Kind = constants.Earning
		ev.Amount = v
	}
	return ev, true
}

// twoColEvents handles the layout without a P/D flag: reference, earnings
// column, optional deductions column. A description that names a discount
// moves the value to the deductions side.
func twoColEvents(m []string) ([]entity.PayEvent, bool) {
	v1, err := ParseMoney(m[4])
	if err != nil {
		return nil, false
	}
	code, desc, ref := m[1], cleanDescription(m[2]), m[3]

	var v2 *decimal.Decimal
	if m[5] != "" {
		v, err := ParseMoney(m[5])
		if err != nil {
			return nil, false
		}
		v2 = &v
	}

	if strings.Contains(strings.ToUpper(desc), "DESC") {
		amt := v1
		if v2 != nil {
			amt = *v2
		}
		return []entity.PayEvent{{
			Code: code, Description: desc, Reference: ref,
			Amount: amt.Neg(), Kind: constants.Deduction,
		}}, true
	}

	out := []entity.PayEvent{{
		Code: code, Description: desc, Reference: ref,
		Amount: v1, Kind: constants.Earning,
	}}
	if v2 != nil && !v2.IsZero() {
		out = append(out, entity.PayEvent{
			Code: code, Description: desc, Reference: ref,
			Amount: v2.Neg(), Kind: constants.Deduction,
		})
	}
	return out, true
}

func cleanDescription(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".")
}
