package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/metadata"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/strategy"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

// ConvertResponse is the JSON body of /api/convert.
type ConvertResponse struct {
	Success     bool                       `json:"success"`
	Error       string                     `json:"error,omitempty"`
	Issuer      string                     `json:"issuer,omitempty"`
	Strategy    string                     `json:"strategy,omitempty"`
	Score       models.ValidityScore       `json:"score"`
	Records     []models.TransactionRecord `json:"records"`
	CSV         string                     `json:"csv,omitempty"`
	TotalDebit  string                     `json:"totalDebit"`
	TotalCredit string                     `json:"totalCredit"`
	Count       int                        `json:"count"`
	Metadata    *metadata.Info             `json:"metadata,omitempty"`
	Attempts    []strategy.Attempt         `json:"attempts,omitempty"`
}

// Server wires the HTTP surface over one dispatcher.
type Server struct {
	log        zerolog.Logger
	cfg        config.Config
	dispatcher *strategy.Dispatcher
}

// NewServer builds a Server around the builtin strategy registry with the
// configuration's field-map overrides applied.
func NewServer(log zerolog.Logger, cfg config.Config) *Server {
	registry := strategy.NewRegistry()
	if err := registry.ApplyConfig(cfg.MinHeaderFields, cfg.FieldMaps); err != nil {
		log.Warn().Err(err).Msg("ignoring invalid field map overrides")
	}
	d := strategy.NewDispatcher(log, registry, cfg.ValidityThreshold, cfg.Tolerance())
	return &Server{log: log, cfg: cfg, dispatcher: d}
}

// App assembles the fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})
	app.Get("/api/health", s.handleHealth)
	app.Post("/api/convert", s.handleConvert)
	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

// handleConvert accepts either a PDF upload (form field "file") or
// pre-extracted collaborator output (form field "document", JSON pages)
// and returns the scored ledger with its CSV rendition.
func (s *Server) handleConvert(c *fiber.Ctx) error {
	pages, meta, err := s.loadPages(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	opts := strategy.RunOptions{
		Tolerance:      s.cfg.Tolerance(),
		OpeningBalance: c.FormValue("opening_balance", s.cfg.OpeningBalance),
	}
	if opts.OpeningBalance == "" {
		opts.OpeningBalance = meta.OpeningBalance
	}

	includeHeader := c.FormValue("header") != "false"

	result, err := s.dispatcher.Dispatch(pages, c.FormValue("issuer"), opts)
	if err != nil {
		s.log.Warn().Err(err).Msg("conversion failed")
		resp := ConvertResponse{
			Error:       err.Error(),
			Records:     []models.TransactionRecord{},
			TotalDebit:  "0.00",
			TotalCredit: "0.00",
		}
		if result != nil {
			// Parsed but balance-inconsistent: still useful output for
			// human review, flagged per record.
			fillResult(&resp, result, meta, includeHeader)
		}
		resp.Success = false
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}

	resp := ConvertResponse{Success: true}
	fillResult(&resp, result, meta, includeHeader)
	resp.Metadata = &meta
	return c.JSON(resp)
}

func (s *Server) loadPages(c *fiber.Ctx) ([]models.Page, metadata.Info, error) {
	if doc := c.FormValue("document"); doc != "" {
		pages, err := extractor.ParseDocumentJSON([]byte(doc))
		if err != nil {
			return nil, metadata.Info{}, err
		}
		return pages, metadata.Extract(pages), nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, metadata.Info{}, errors.New("no input: supply a PDF as form field 'file' or extracted pages as 'document'")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, metadata.Info{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, metadata.Info{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, f); err != nil {
		return nil, metadata.Info{}, fmt.Errorf("save upload: %w", err)
	}
	tmp.Close()

	pages, err := extractor.ExtractPages(tmp.Name())
	if err != nil {
		return nil, metadata.Info{}, err
	}
	return pages, metadata.Extract(pages), nil
}

func fillResult(resp *ConvertResponse, result *strategy.Result, meta metadata.Info, includeHeader bool) {
	records := result.Ledger
	if records == nil {
		// nil marshals to JSON null, not [].
		records = models.Ledger{}
	}

	resp.Issuer = result.Issuer
	resp.Strategy = result.Strategy
	resp.Score = result.Score
	resp.Records = records
	resp.Count = len(records)
	resp.Attempts = result.Attempts

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, rec := range records {
		if d, err := decimal.NewFromString(rec.Debit); err == nil {
			totalDebit = totalDebit.Add(d)
		}
		if cr, err := decimal.NewFromString(rec.Credit); err == nil {
			totalCredit = totalCredit.Add(cr)
		}
	}
	resp.TotalDebit = totalDebit.StringFixed(2)
	resp.TotalCredit = totalCredit.StringFixed(2)

	var buf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.Write(&buf, records, meta); err == nil {
		resp.CSV = buf.String()
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:     false,
		Error:       msg,
		Records:     []models.TransactionRecord{},
		TotalDebit:  "0.00",
		TotalCredit: "0.00",
	})
}
