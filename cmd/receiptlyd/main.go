package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/receiptly/receiptly/internal/common"
	"github.com/receiptly/receiptly/internal/export"
	"github.com/receiptly/receiptly/internal/extract"
	"github.com/receiptly/receiptly/internal/llm"
	"github.com/receiptly/receiptly/internal/llm/openai"
	"github.com/receiptly/receiptly/internal/ocr"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/repository"
	"github.com/receiptly/receiptly/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.DSN, logger)
	if err != nil {
		logger.Error("opening database failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepository(db, logger)
	receiptRepo := repository.NewReceiptRepository(db, logger)

	recognizer := ocr.NewRecognizer(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		Timeout:       cfg.OCR.Timeout,
	}, logger)

	// The LLM stage is optional: without a real credential the extractor
	// goes straight from OCR to the rule-based fallback.
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
		logger.Info("llm extraction enabled", "model", cfg.LLM.Model)
	} else {
		logger.Info("llm extraction disabled, rule-based fallback only")
	}

	extractor := extract.NewExtractor(recognizer, fields, logger)

	storage, err := receipts.NewDiskStorage(cfg.Upload.Dir)
	if err != nil {
		logger.Error("creating upload storage failed", "error", err)
		os.Exit(1)
	}

	svc := receipts.NewService(users, receiptRepo, extractor, storage, cfg.Limits.FreeReceipts, logger)
	exporter := export.NewService(logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(svc, exporter, logger).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
