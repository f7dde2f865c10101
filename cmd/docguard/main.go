package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/docguard/docguard-backend/internal/extraction"
	"github.com/docguard/docguard-backend/internal/receipt"
	"github.com/docguard/docguard-backend/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A .env file is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, fs, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	jsonExtractor, err := extraction.NewExtractor(cfg.extractor)
	if err != nil {
		slog.Error("Invalid extractor", "error", err)
		os.Exit(1)
	}

	// The scanner is created once and shared read-only by every request
	var scanner scanning.Scanner
	switch cfg.scannerType {
	case "claude":
		apiKey := firstNonEmpty(cfg.anthropicKey, os.Getenv("ANTHROPIC_API_KEY"))
		if apiKey == "" {
			slog.Warn("No Anthropic API key configured; analysis requests will fail. Set --anthropic-key or ANTHROPIC_API_KEY")
		}
		slog.Info("Initializing Claude scanner...", "model", cfg.claudeModel)
		scanner = scanning.NewClaude(scanning.ClaudeConfig{
			APIKey:    apiKey,
			Model:     cfg.claudeModel,
			MaxTokens: int64(cfg.maxTokens),
		})
	case "gemini":
		slog.Info("Initializing Gemini scanner...", "model", cfg.geminiModel)
		scanner, err = scanning.NewGemini(firstNonEmpty(cfg.geminiKey, os.Getenv("GEMINI_API_KEY")), cfg.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", cfg.ollamaURL, "model", cfg.ollamaModel)
		scanner = scanning.NewOllama(cfg.ollamaURL, cfg.ollamaModel)
	case "openai":
		slog.Info("Initializing OpenAI scanner...", "model", cfg.openaiModel)
		scanner, err = scanning.NewOpenAI(firstNonEmpty(cfg.openaiKey, os.Getenv("OPENAI_API_KEY")), cfg.openaiURL, cfg.openaiModel, cfg.maxTokens)
	default:
		slog.Error("Invalid scanner type", "type", cfg.scannerType, "valid", "claude, gemini, ollama or openai")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to initialize scanner", "type", cfg.scannerType, "error", err)
		os.Exit(1)
	}
	defer scanner.Close()

	service := receipt.NewServiceWithOptions(scanner, extraction.NewParser(jsonExtractor), receipt.Options{
		Timeout:    cfg.scanTimeout,
		RecoverTIN: cfg.recoverTIN,
	})
	server := receipt.NewServer(service, cfg.maxUpload)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.port)
	slog.Info("Server starting", "address", fmt.Sprintf("http://0.0.0.0%s", addr), "version", version, "scanner", cfg.scannerType)
	if err := server.Start(ctx, addr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
