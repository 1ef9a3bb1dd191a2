package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/llm"
	"github.com/contare/payslip-reconciler/internal/segment"
)

const docText = "Recibo Mensalista Janeiro de 2025\n" +
	"Empr.: 001 Contare Ltda\n" +
	"19 ALANA DE OLIVEIRA ROSA 529.982.247-25\n" +
	"8781 SALARIO CONTRATUAL 30,00 3.000,00 P\n" +
	"8782 BONUS MENSAL 30,00 200,00 P\n" +
	"981 ADIANTAMENTO 30,00 150,00 D\n" +
	"Total de Vencimentos 3.200,00\n" +
	"Empr.: 001 Contare Ltda\n" +
	"20 BRUNO LIMA 111.444.777-35\n" +
	"8781 SALARIO CONTRATUAL 30,00 2.500,00 P\n"

func testConfig() common.Config {
	cfg := common.LoadConfig()
	cfg.Run.Workers = 2
	cfg.LLM.Enabled = false
	return cfg
}

func rosterRows() []entity.ReferenceRow {
	return []entity.ReferenceRow{
		{RowIndex: 2, TaxID: "52998224725", Name: "Alana Rosa", ReferenceGross: decimal.RequireFromString("3400.00")},
		{RowIndex: 3, TaxID: "11144477735", Name: "Bruno Lima", ReferenceGross: decimal.RequireFromString("2500.00")},
		{RowIndex: 4, TaxID: "12345678901", Name: "Carla Nunes", ReferenceGross: decimal.RequireFromString("2000.00")},
	}
}

func TestRunEndToEnd(t *testing.T) {
	p := NewProcessor(nil, testConfig(), nil)
	res, err := p.Run(context.Background(), segment.Document{Pages: []string{docText}}, rosterRows())
	require.NoError(t, err)

	assert.Equal(t, "01/2025", res.Period)
	require.Len(t, res.Report.Consolidated, 2)

	alana := res.Report.Consolidated[0]
	assert.Equal(t, "52998224725", alana.TaxID)
	assert.True(t, alana.PayrollGross.Equal(decimal.RequireFromString("3200")))
	assert.True(t, alana.Difference.Equal(decimal.RequireFromString("200")))
	assert.True(t, alana.Supplement.Equal(decimal.RequireFromString("200")))

	bruno := res.Report.Consolidated[1]
	assert.True(t, bruno.Supplement.IsZero())
	assert.Equal(t, constants.Matched, bruno.MatchStatus)

	// verification covers both matched employees plus the roster-only row
	require.Len(t, res.Report.Verification, 3)
	assert.GreaterOrEqual(t, len(res.Report.Verification), len(res.Report.Consolidated))
	last := res.Report.Verification[2]
	assert.Equal(t, constants.UnmatchedInReference, last.MatchStatus)
	assert.Equal(t, "12345678901", last.TaxID)

	// only the positive supplement produces a receipt, amount exact
	require.Len(t, res.Receipts, 1)
	assert.Equal(t, "52998224725", res.Receipts[0].TaxID)
	assert.True(t, res.Receipts[0].Line.Amount.Equal(alana.Supplement))
	assert.Equal(t, "01/2025", res.Receipts[0].Period)
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	doc := segment.Document{Pages: []string{docText}}

	cfg := testConfig()
	cfg.Run.Workers = 1
	seq, err := NewProcessor(nil, cfg, nil).Run(context.Background(), doc, rosterRows())
	require.NoError(t, err)

	cfg.Run.Workers = 8
	par, err := NewProcessor(nil, cfg, nil).Run(context.Background(), doc, rosterRows())
	require.NoError(t, err)

	require.Equal(t, len(seq.Report.Consolidated), len(par.Report.Consolidated))
	for i := range seq.Report.Consolidated {
		assert.Equal(t, seq.Report.Consolidated[i].TaxID, par.Report.Consolidated[i].TaxID)
		assert.Equal(t, seq.Report.Consolidated[i].Supplement.StringFixed(2), par.Report.Consolidated[i].Supplement.StringFixed(2))
	}
}

func TestRunCanceledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(nil, testConfig(), nil)
	_, err := p.Run(ctx, segment.Document{Pages: []string{docText}}, rosterRows())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunSegmentationFailureIsFatal(t *testing.T) {
	p := NewProcessor(nil, testConfig(), nil)
	_, err := p.Run(context.Background(), segment.Document{Pages: []string{"nada aqui\n"}}, rosterRows())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSegmentation))
	assert.True(t, common.IsFatal(err))
}

func TestRunDuplicateRosterKeyIsFatal(t *testing.T) {
	rows := append(rosterRows(), entity.ReferenceRow{RowIndex: 9, TaxID: "12345678901", ReferenceGross: decimal.Zero})
	p := NewProcessor(nil, testConfig(), nil)
	_, err := p.Run(context.Background(), segment.Document{Pages: []string{docText}}, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicateReferenceKey))
}

type stubFallback struct {
	events []entity.PayEvent
	err    error
	calls  int
}

func (s *stubFallback) ExtractEvents(_ context.Context, _ llm.ExtractRequest) ([]entity.PayEvent, []byte, error) {
	s.calls++
	return s.events, nil, s.err
}

func TestRunFallbackOnlyForEmptyBlocks(t *testing.T) {
	// Bruno's block has an unreadable event table: deterministic extraction
	// finds nothing, so the fallback fills it in.
	doc := segment.Document{Pages: []string{
		"Recibo Mensalista Janeiro de 2025\n" +
			"Empr.: 001\n19 ALANA DE OLIVEIRA ROSA 529.982.247-25\n8781 SALARIO CONTRATUAL 30,00 3.000,00 P\n" +
			"Empr.: 001\n20 BRUNO LIMA 111.444.777-35\nquadro ilegivel\n",
	}}
	stub := &stubFallback{events: []entity.PayEvent{{
		Code: "8781", Description: "SALARIO CONTRATUAL",
		Amount: decimal.RequireFromString("2500.00"), Kind: constants.Earning,
	}}}

	res, err := NewProcessor(nil, testConfig(), stub).Run(context.Background(), doc, rosterRows())
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls, "fallback runs only for the zero-event block")

	require.Len(t, res.Report.Consolidated, 2)
	bruno := res.Report.Consolidated[1]
	assert.True(t, bruno.PayrollGross.Equal(decimal.RequireFromString("2500")))

	// matched row carries the fallback annotation
	assert.Contains(t, res.Report.Verification[1].Reason, "fallback")
}

func TestRunFallbackFailureDegrades(t *testing.T) {
	doc := segment.Document{Pages: []string{
		"Empr.: 001\n20 BRUNO LIMA 111.444.777-35\nquadro ilegivel\n",
	}}
	stub := &stubFallback{err: errors.New("timeout")}

	res, err := NewProcessor(nil, testConfig(), stub).Run(context.Background(), doc, rosterRows())
	require.NoError(t, err, "fallback failure never aborts the run")

	// Bruno still appears, matched with zero gross; the full difference is
	// paid by policy and the anomaly is spelled out for the operator.
	require.Len(t, res.Report.Consolidated, 1)
	assert.True(t, res.Report.Consolidated[0].PayrollGross.IsZero())
	reason := res.Report.Verification[0].Reason
	assert.Contains(t, reason, "fallback extraction failed")
	assert.Contains(t, reason, "no events extracted")
	require.Len(t, res.Receipts, 1)
	assert.True(t, res.Receipts[0].Line.Amount.Equal(decimal.RequireFromString("2500")))
}
