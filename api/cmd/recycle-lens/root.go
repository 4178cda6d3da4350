package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recycle-lens/api/internal/config"
	"recycle-lens/api/internal/handle"
	"recycle-lens/api/internal/httpserver"
	"recycle-lens/api/internal/llm"
	"recycle-lens/api/internal/llm/gemini"
	"recycle-lens/api/internal/logger"
)

// NewRootCmd creates the root command; running it starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recycle-lens",
		Short: "Object detection and recycling analysis API backed by Gemini",
		Long: `recycle-lens serves two endpoints:

  POST /detect   multipart image upload (field "file"); returns {"object", "materials"}
  POST /analyze  {"object", "materials"}; returns environmental impact, recycling and upcycling advice

Configuration comes from the environment (GEMINI_API_KEY is required) and an
optional .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.Flags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.Flags().String("host", "", "listen host (overrides HOST)")
	cmd.Flags().String("port", "", "listen port (overrides PORT)")

	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	dotenvErr := config.LoadDotEnv(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if dotenvErr != nil {
		if errors.Is(dotenvErr, fs.ErrNotExist) {
			log.Debug("no env file", zap.String("path", envFile))
		} else {
			log.Warn("error loading env file", zap.String("path", envFile), zap.Error(dotenvErr))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gc := llm.GenerationConfig{
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		TopK:             cfg.TopK,
		MaxOutputTokens:  cfg.MaxOutputTokens,
		ResponseMIMEType: llm.DefaultGenerationConfig().ResponseMIMEType,
	}
	engine, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, gc, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	h := handle.New(engine, handle.Options{
		UploadDir:       cfg.UploadDir,
		UpstreamTimeout: cfg.UpstreamTimeout,
	}, log)

	log.Info("starting",
		zap.String("version", getVersion()),
		zap.String("engine", engine.Name()),
		zap.String("model", engine.Model),
		zap.Duration("upstream_timeout", cfg.UpstreamTimeout))

	return httpserver.Run(ctx, cfg.Addr(), httpserver.NewRouter(h, log), log)
}
