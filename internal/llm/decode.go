package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/entity"
)

type eventDoc struct {
	Eventos []struct {
		Codigo      string       `json:"codigo"`
		Descricao   string       `json:"descricao"`
		Referencia  *string      `json:"referencia"`
		Vencimentos *json.Number `json:"vencimentos"`
		Descontos   *json.Number `json:"descontos"`
	} `json:"eventos"`
}

// DecodeEvents converts a schema-valid fallback document into pay events.
// Amounts travel as json.Number so they reach decimal without passing
// through a binary float. A row with both columns yields an earning and a
// deduction event, mirroring the deterministic extractor.
func DecodeEvents(raw []byte) ([]entity.PayEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc eventDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	var out []entity.PayEvent
	for i, e := range doc.Eventos {
		ref := ""
		if e.Referencia != nil {
			ref = *e.Referencia
		}
		venc, err := amount(e.Vencimentos)
		if err != nil {
			return nil, fmt.Errorf("eventos[%d].vencimentos: %w", i, err)
		}
		desc, err := amount(e.Descontos)
		if err != nil {
			return nil, fmt.Errorf("eventos[%d].descontos: %w", i, err)
		}
		if venc.Sign() > 0 {
			out = append(out, entity.PayEvent{
				Code: e.Codigo, Description: e.Descricao, Reference: ref,
				Amount: venc, Kind: constants.Earning,
			})
		}
		if desc.Sign() > 0 {
			out = append(out, entity.PayEvent{
				Code: e.Codigo, Description: e.Descricao, Reference: ref,
				Amount: desc.Neg(), Kind: constants.Deduction,
			})
		}
	}
	return out, nil
}

func amount(n *json.Number) (decimal.Decimal, error) {
	if n == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
