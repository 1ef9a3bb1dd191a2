// Package pipeline wires the stages into one run: segment, extract and
// resolve per block (optionally in parallel), match against the roster,
// compute, report, assemble receipts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/calc"
	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/extract"
	"github.com/contare/payslip-reconciler/internal/identity"
	"github.com/contare/payslip-reconciler/internal/llm"
	"github.com/contare/payslip-reconciler/internal/match"
	"github.com/contare/payslip-reconciler/internal/receipt"
	"github.com/contare/payslip-reconciler/internal/report"
	"github.com/contare/payslip-reconciler/internal/segment"
)

// Processor coordinates one stateless run. Safe to reuse across runs; it
// keeps nothing between them.
type Processor struct {
	Logger    *slog.Logger
	Cfg       common.Config
	Segmenter *segment.Segmenter
	Extractor *extract.Extractor
	Matcher   *match.Matcher
	Calc      *calc.Calculator
	Reporter  *report.Reporter
	Assembler *receipt.Assembler
	Fallback  llm.EventExtractor
}

// Result is everything one run produced. It is never mutated afterwards.
type Result struct {
	RunID    uuid.UUID
	Period   string
	Blocks   []*entity.EmployeeBlock
	Report   *report.Report
	Receipts []entity.Receipt
}

// NewProcessor builds a processor from config. fallback may be nil; the
// deterministic path then stands alone.
func NewProcessor(logger *slog.Logger, cfg common.Config, fallback llm.EventExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = llm.Noop{}
	}
	if cfg.Run.Workers < 1 {
		cfg.Run.Workers = 1
	}
	return &Processor{
		Logger:    logger,
		Cfg:       cfg,
		Segmenter: segment.NewSegmenter(logger),
		Extractor: extract.NewExtractor(logger),
		Matcher:   match.NewMatcher(logger),
		Calc:      calc.NewCalculator(cfg.Run.MinimumPayableThreshold, logger),
		Reporter:  report.NewReporter(logger),
		Assembler: receipt.NewAssembler(cfg.Run.CompanyName, logger),
		Fallback:  fallback,
	}
}

// Run executes the full pipeline. Only structural failures come back as
// errors (segmentation, roster column detection upstream, duplicate join
// keys); every per-row problem lands in the verification dataset instead.
func (p *Processor) Run(ctx context.Context, doc segment.Document, roster []entity.ReferenceRow) (*Result, error) {
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())
	start := time.Now()
	p.Logger.Info("pipeline.run.start", "run_id", runID, "pages", len(doc.Pages), "roster_rows", len(roster))

	period := doc.DetectPeriod()

	blocks, err := p.Segmenter.Run(doc)
	if err != nil {
		return nil, err
	}

	// Per-block stage: independent across employees, bounded workers, each
	// goroutine owns exactly one block so slice order never changes.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Cfg.Run.Workers)
	for _, b := range blocks {
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.Extractor.Run(b)
			identity.Resolve(b)
			if len(b.Events) == 0 {
				p.fallbackExtract(gctx, b, period)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("per-block extraction: %w", err)
	}

	blocks = dropEmpty(blocks, p.Logger)

	matched, err := p.Matcher.Run(blocks, roster)
	if err != nil {
		return nil, err
	}

	results := p.Calc.ComputeAll(matched.Matched)
	rep := p.Reporter.Build(matched, results, period)
	receipts := p.Assembler.Build(matched, results, period)

	p.Logger.Info("pipeline.run.ok",
		"run_id", runID,
		"period", period,
		"blocks", len(blocks),
		"consolidated", len(rep.Consolidated),
		"verification", len(rep.Verification),
		"receipts", len(receipts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		RunID:    runID,
		Period:   period,
		Blocks:   blocks,
		Report:   rep,
		Receipts: receipts,
	}, nil
}

// fallbackExtract asks the injected extractor for a best-effort read of a
// block the patterns couldn't parse. Failures degrade: the block simply
// stays empty and surfaces unmatched or zero-gross in verification.
func (p *Processor) fallbackExtract(ctx context.Context, b *entity.EmployeeBlock, period string) {
	if p.Cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = common.WithTimeout(ctx, p.Cfg.LLM.Timeout)
		defer cancel()
	}
	events, _, err := p.Fallback.ExtractEvents(ctx, llm.ExtractRequest{
		BlockText:  b.RawText,
		BlockIndex: b.Index,
		Period:     period,
	})
	if err != nil {
		b.FallbackError = err.Error()
		p.Logger.Warn("pipeline.fallback.failed", "block", b.Index, "error", err)
		return
	}
	if len(events) == 0 {
		return
	}
	b.Events = events
	b.Fallback = true
	p.Logger.Info("pipeline.fallback.ok", "block", b.Index, "events", len(events))
}

// dropEmpty removes the over-splitting artifacts: blocks with no identity
// and no events carry no employee.
func dropEmpty(blocks []*entity.EmployeeBlock, logger *slog.Logger) []*entity.EmployeeBlock {
	out := blocks[:0]
	dropped := 0
	for _, b := range blocks {
		if b.TaxIDStatus == constants.TaxIDUnresolved && len(b.Events) == 0 {
			dropped++
			continue
		}
		out = append(out, b)
	}
	if dropped > 0 {
		logger.Debug("pipeline.blocks.filtered", "dropped", dropped)
	}
	return out
}
