// Package cli is the terminal front-end. It shares the extraction, storage,
// and export core with the HTTP server.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/receiptly/receiptly/internal/common"
	"github.com/receiptly/receiptly/internal/export"
	"github.com/receiptly/receiptly/internal/extract"
	"github.com/receiptly/receiptly/internal/llm"
	"github.com/receiptly/receiptly/internal/llm/openai"
	"github.com/receiptly/receiptly/internal/ocr"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/repository"
)

var (
	flagEmail   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "receiptly",
	Short: "Receipt tracking from the terminal",
	Long:  "Scan receipt images, track expenses, and export spreadsheets without the web UI.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEmail, "email", "e", "demo@example.com", "Account email")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

// app bundles the shared wiring used by every subcommand.
type app struct {
	cfg      *common.Config
	svc      *receipts.Service
	users    repository.UserRepository
	exporter *export.Service
	logger   *slog.Logger
	close    func()
}

func openApp(ctx context.Context) (*app, error) {
	logHandler := slog.NewTextHandler(io.Discard, nil)
	if flagVerbose {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := repository.Open(ctx, cfg.Database.DSN, logger)
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(db, logger)
	receiptRepo := repository.NewReceiptRepository(db, logger)

	recognizer := ocr.NewRecognizer(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		Timeout:       cfg.OCR.Timeout,
	}, logger)

	var fields llm.FieldExtractor
	llmCfg := openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}
	if llmCfg.Configured() {
		fields = openai.NewClient(llmCfg, logger)
	}

	extractor := extract.NewExtractor(recognizer, fields, logger)

	storage, err := receipts.NewDiskStorage(cfg.Upload.Dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		svc:      receipts.NewService(users, receiptRepo, extractor, storage, cfg.Limits.FreeReceipts, logger),
		users:    users,
		exporter: export.NewService(logger),
		logger:   logger,
		close:    func() { _ = db.Close() },
	}, nil
}
