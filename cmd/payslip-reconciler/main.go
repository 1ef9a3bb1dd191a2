// Command payslip-reconciler runs the extraction-and-reconciliation pipeline
// over a payslip text dump and a reference roster workbook, writing the
// consolidated and verification spreadsheets plus the receipt payloads for
// the external PDF renderer.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/contare/payslip-reconciler/internal/common"
	"github.com/contare/payslip-reconciler/internal/ingest"
	"github.com/contare/payslip-reconciler/internal/llm"
	"github.com/contare/payslip-reconciler/internal/llm/openai"
	"github.com/contare/payslip-reconciler/internal/pipeline"
	"github.com/contare/payslip-reconciler/internal/segment"
	"github.com/contare/payslip-reconciler/internal/xlsx"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time and level attributes, keep message and other variables
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var (
		payslipPath string
		rosterPath  string
		outDir      string
		configPath  string
		workers     int
		threshold   string
		useLLM      bool
	)

	cmd := &cobra.Command{
		Use:           "payslip-reconciler",
		Short:         "Reconcile payslip extractions against the reference salary roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()
			if configPath != "" {
				if err := cfg.MergeFile(configPath); err != nil {
					return err
				}
			}
			if workers > 0 {
				cfg.Run.Workers = workers
			}
			if threshold != "" {
				d, err := decimal.NewFromString(threshold)
				if err != nil {
					return fmt.Errorf("parse --threshold: %w", err)
				}
				cfg.Run.MinimumPayableThreshold = d
			}
			cfg.LLM.Enabled = useLLM && cfg.LLM.APIKey != ""
			if err := cfg.Validate(); err != nil {
				return err
			}

			var fallback llm.EventExtractor = llm.Noop{}
			if cfg.LLM.Enabled {
				fallback = openai.NewClient(openai.Config{
					APIKey:      cfg.LLM.APIKey,
					BaseURL:     cfg.LLM.BaseURL,
					Model:       cfg.LLM.Model,
					Temperature: cfg.LLM.Temperature,
					Timeout:     cfg.LLM.Timeout,
				}, logger)
			}

			roster, err := xlsx.ReadRoster(rosterPath, logger)
			if err != nil {
				return err
			}
			proc := pipeline.NewProcessor(logger, cfg, fallback)

			info, err := os.Stat(payslipPath)
			if err != nil {
				return fmt.Errorf("stat payslip input: %w", err)
			}
			if !info.IsDir() {
				doc, err := readDocument(payslipPath)
				if err != nil {
					return err
				}
				res, err := proc.Run(cmd.Context(), doc, roster)
				if err != nil {
					return err
				}
				return writeOutputs(logger, outDir, res)
			}

			// Batch mode: one dump per competence month, all reconciled
			// against the same roster. Each dump gets its own output dir.
			dumps, stats, err := ingest.ScanDirectory(payslipPath)
			if err != nil {
				return err
			}
			logger.Info("ingest.scan.ok", "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
			for _, dump := range dumps {
				doc, err := readDocument(dump.Path)
				if err != nil {
					return err
				}
				res, err := proc.Run(cmd.Context(), doc, roster)
				if err != nil {
					return fmt.Errorf("process %s: %w", dump.Name, err)
				}
				if err := writeOutputs(logger, filepath.Join(outDir, dump.Name), res); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&payslipPath, "payslip", "", "payslip text dump, or a directory of dumps (pages separated by form feeds)")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "reference salary roster workbook (xlsx)")
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.Flags().IntVar(&workers, "workers", 0, "extraction worker count (overrides config)")
	cmd.Flags().StringVar(&threshold, "threshold", "", "minimum payable difference (overrides config)")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "enable the fallback extractor for unreadable blocks")
	_ = cmd.MarkFlagRequired("payslip")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

// readDocument loads the collaborator-extracted text. Pages are separated by
// form feeds; a dump without them is treated as a single page.
func readDocument(path string) (segment.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return segment.Document{}, fmt.Errorf("read payslip text: %w", err)
	}
	return segment.Document{Pages: strings.Split(string(b), "\f")}, nil
}

func writeOutputs(logger *slog.Logger, outDir string, res *pipeline.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	writer := xlsx.NewWriter(logger)
	consolidated, err := writer.WriteConsolidated(res.Report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "consolidado.xlsx"), consolidated, 0o644); err != nil {
		return fmt.Errorf("write consolidated workbook: %w", err)
	}

	verification, err := writer.WriteVerification(res.Report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "verificacao.xlsx"), verification, 0o644); err != nil {
		return fmt.Errorf("write verification workbook: %w", err)
	}

	// Receipt payloads for the external PDF-template renderer.
	receipts, err := json.MarshalIndent(res.Receipts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode receipts: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "recibos.json"), receipts, 0o644); err != nil {
		return fmt.Errorf("write receipts: %w", err)
	}

	logger.Info("outputs.written",
		"run_id", res.RunID,
		"dir", outDir,
		"consolidated_rows", len(res.Report.Consolidated),
		"verification_rows", len(res.Report.Verification),
		"receipts", len(res.Receipts),
	)
	return nil
}
