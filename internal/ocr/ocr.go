package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/receiptly/receiptly/constants"
)

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string
	Timeout       time.Duration // per-call bound; 0 uses the caller's context as-is
}

// RecognitionResult carries the recognized text plus diagnostics.
type RecognitionResult struct {
	Text       string
	Language   string
	Duration   time.Duration
	Confidence float32
}

type Recognizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewRecognizer(cfg Config, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &Recognizer{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// NewRecognizerWithRunner injects a command runner; used by tests to stub
// the tesseract binary.
func NewRecognizerWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Recognizer {
	r := NewRecognizer(cfg, logger)
	r.runner = runner
	return r
}

// Recognize runs tesseract on the image at path and returns normalized text.
// Only PNG/JPEG inputs are supported; anything else is rejected up front.
func (r *Recognizer) Recognize(ctx context.Context, path string) (RecognitionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		r.logger.Error("unsupported ocr extension", "extension", ext)
		return RecognitionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	args := []string{path, "stdout", "-l", r.cfg.TesseractLang}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, args...)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}

	txt := Normalize(reBoxNoise.ReplaceAllString(string(out), ""))
	res := RecognitionResult{
		Text:       txt,
		Language:   r.cfg.TesseractLang,
		Duration:   time.Since(start),
		Confidence: heuristicConfidence(txt),
	}
	r.logger.Debug("ocr.recognize.ok",
		"path", path,
		"text_len", len(txt),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
