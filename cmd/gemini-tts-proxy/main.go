package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/api"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/config"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/gemini"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/logging"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		// Use stderr before logger is initialized
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting gemini-tts-proxy", "version", "0.1.0")

	if cfg.AuthDisabled() {
		logger.Warn("HTTP bearer authentication is disabled (BEARER_TOKEN is empty)")
	}

	// Log loaded configuration (without sensitive values)
	logger.Info("configuration loaded",
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"http_port", cfg.HTTPPort,
		"gemini_model", cfg.GeminiModel,
		"gemini_use_adc", cfg.GeminiUseADC && cfg.GeminiAPIKey == "",
		"gemini_timeout", cfg.GeminiTimeout,
		"default_voice", cfg.DefaultVoice,
		"max_text_length", cfg.MaxTextLength,
		"cache_max_age", cfg.CacheMaxAge,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	engine, err := gemini.New(ctx, gemini.Config{
		APIKey:       cfg.GeminiAPIKey,
		UseADC:       cfg.GeminiUseADC,
		Model:        cfg.GeminiModel,
		BaseURL:      cfg.GeminiBaseURL,
		DefaultVoice: cfg.DefaultVoice,
		Timeout:      cfg.GeminiTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize Gemini TTS", "error", err)
		os.Exit(1)
	}

	server := api.New(cfg, logger, engine)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
}
