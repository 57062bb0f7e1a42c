package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drivebrief/drivebrief/internal/adapters/driven/google"
	"github.com/drivebrief/drivebrief/internal/adapters/driven/llm/openai"
	"github.com/drivebrief/drivebrief/internal/adapters/driven/storage/file"
	"github.com/drivebrief/drivebrief/internal/adapters/driving/httpapi"
	"github.com/drivebrief/drivebrief/internal/config"
	"github.com/drivebrief/drivebrief/internal/core/services"
	"github.com/drivebrief/drivebrief/internal/extract"
	"github.com/drivebrief/drivebrief/internal/logger"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the HTTP server exposing the summarization and authorization
endpoints. Configuration comes from the optional --config file overlaid
with DRIVEBRIEF_* environment variables.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // best effort on shutdown

	store, err := file.NewCredentialStore(cfg.Auth.CredentialPath)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}

	auth, err := services.NewAuthService(services.AuthConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
	}, store, log)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	ctx := context.Background()

	drive, err := google.NewDriveClient(ctx, google.NewTokenSource(ctx, auth), log)
	if err != nil {
		return fmt.Errorf("init drive client: %w", err)
	}

	summarizer := openai.New(openai.Config{
		APIKey:        cfg.OpenAI.APIKey,
		BaseURL:       cfg.OpenAI.BaseURL,
		Model:         cfg.OpenAI.Model,
		MaxInputChars: cfg.Summary.MaxChars,
		MaxTokens:     cfg.Summary.MaxTokens,
	})
	if cfg.OpenAI.APIKey == "" {
		log.Warn("openai api key not configured, summarize requests will fail")
	}

	batch := services.NewBatchService(auth, drive, extract.DefaultRegistry(), summarizer, log)

	handler := httpapi.NewHandler(batch, auth, httpapi.HandlerConfig{
		DefaultFolderID:  cfg.Drive.DefaultFolder,
		RedirectURL:      cfg.Dashboard.URL,
		SummaryModel:     summarizer.ModelName(),
		OpenAIConfigured: cfg.OpenAI.APIKey != "",
	}, log)

	server := httpapi.NewServer(cfg.Server.Addr, httpapi.NewRouter(handler, log), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
