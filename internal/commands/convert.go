package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/metadata"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/strategy"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

func newConvertCommand(newLogger func() zerolog.Logger) *cobra.Command {
	var (
		issuer         string
		output         string
		configPath     string
		openingBalance string
		includeHeader  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <statement.pdf|pages.json> [more inputs...]",
		Short: "Convert statement extracts into a validated transaction CSV",
		Long: `Convert reconstructs a transaction ledger from a bank statement.

Input is either a statement PDF or a JSON file of pre-extracted pages
(the extraction collaborator's output). The issuer is sniffed from page
content when --issuer is omitted. Each record carries CONSISTENT and
DISCREPANCY columns from the balance-chain validation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if openingBalance != "" {
				cfg.OpeningBalance = openingBalance
			}

			registry := strategy.NewRegistry()
			if err := registry.ApplyConfig(cfg.MinHeaderFields, cfg.FieldMaps); err != nil {
				return err
			}
			dispatcher := strategy.NewDispatcher(log, registry, cfg.ValidityThreshold, cfg.Tolerance())

			for _, input := range args {
				if err := convertFile(log, dispatcher, cfg, input, issuer, output, includeHeader); err != nil {
					return fmt.Errorf("convert %s: %w", input, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "issuer key (access, gtb, fidelity, zenith, kuda); sniffed when omitted")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (defaults to input name with .csv)")
	cmd.Flags().StringVar(&configPath, "config", "statement-ledger.yaml", "configuration file")
	cmd.Flags().StringVar(&openingBalance, "opening-balance", "", "seed the balance chain with a known opening balance")
	cmd.Flags().BoolVar(&includeHeader, "header", true, "include account metadata comment rows in CSV")

	return cmd
}

func convertFile(log zerolog.Logger, dispatcher *strategy.Dispatcher, cfg config.Config, input, issuer, output string, includeHeader bool) error {
	pages, err := loadInput(input)
	if err != nil {
		return err
	}
	log.Info().Str("input", input).Int("pages", len(pages)).Msg("pages loaded")

	meta := metadata.Extract(pages)
	opening := cfg.OpeningBalance
	if opening == "" {
		opening = meta.OpeningBalance
	}

	result, err := dispatcher.Dispatch(pages, issuer, strategy.RunOptions{
		Tolerance:      cfg.Tolerance(),
		OpeningBalance: opening,
	})
	if err != nil {
		if errors.Is(err, strategy.ErrNoViableStrategy) && result != nil {
			// Keep the best attempt on disk anyway; the per-record flags
			// make the inconsistencies reviewable.
			log.Warn().
				Str("strategy", result.Strategy).
				Float64("rate", result.Score.Rate).
				Msg("ledger below validity threshold, writing best attempt")
			return writeOutput(log, input, output, result.Ledger, meta, includeHeader)
		}
		return err
	}

	log.Info().
		Str("strategy", result.Strategy).
		Int("records", len(result.Ledger)).
		Float64("rate", result.Score.Rate).
		Msg("ledger reconstructed")

	return writeOutput(log, input, output, result.Ledger, meta, includeHeader)
}

// loadInput reads a PDF via the extraction adapter, or a JSON page dump
// produced by an external collaborator.
func loadInput(path string) ([]models.Page, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractor.ExtractPages(path)
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return extractor.ParseDocumentJSON(raw)
	default:
		return nil, fmt.Errorf("expected .pdf or .json input, got %q", filepath.Ext(path))
	}
}

func writeOutput(log zerolog.Logger, input, output string, ledger models.Ledger, meta metadata.Info, includeHeader bool) error {
	outPath := output
	if outPath == "" {
		outPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, ledger, meta); err != nil {
		return err
	}
	log.Info().Str("output", outPath).Msg("CSV written")
	return nil
}
