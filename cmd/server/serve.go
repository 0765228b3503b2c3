package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"nutiai.com/nutiai-server/internal/api"
	"nutiai.com/nutiai-server/internal/app"
	"nutiai.com/nutiai-server/internal/config"
	"nutiai.com/nutiai-server/internal/core"
	"nutiai.com/nutiai-server/internal/logging"
	"nutiai.com/nutiai-server/internal/media"
	"nutiai.com/nutiai-server/internal/realtime"
	"nutiai.com/nutiai-server/internal/remote"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "override HTTP_PORT")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.AppConfig
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.HTTPPort = port
	}
	if err := cfg.Require(); err != nil {
		return err
	}

	logger := newLogger()
	config.WatchLogLevel(func(level string) {
		logger.SetLevel(logging.ParseLevel(level))
		logger.Info("log level changed", "level", level)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local, err := openLocal()
	if err != nil {
		return err
	}
	defer local.Close()

	dialector, err := remote.Dialector(cfg.RemoteDriver, cfg.RemoteDSN)
	if err != nil {
		return err
	}
	accounts, err := remote.Open(dialector, nil, logger)
	if err != nil {
		return err
	}
	defer accounts.Close()

	llmService, err := core.NewLLMService(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		return err
	}
	defer llmService.Close()

	gateway := core.NewGateway(llmService, core.Options{
		PlanModel:    cfg.PlanModel,
		FlashModel:   cfg.FlashModel,
		HistoryLimit: cfg.ChatHistoryLimit,
		Logger:       logger,
	})

	registry := app.NewRegistry(local, app.Options{
		NotificationTTL: cfg.NotificationTTL,
		MaxSaved:        cfg.SavedLimit,
		Logger:          logger,
	})

	deps := api.Deps{
		Registry:      registry,
		Gateway:       gateway,
		Accounts:      accounts,
		Hub:           realtime.NewHub(logger),
		MaxImageBytes: cfg.MaxImageBytes,
		Logger:        logger,
	}
	if err := wireMedia(ctx, cfg, &deps, logger); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      api.NewRouter(api.NewAPIHandler(deps), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // plan generation is slow
		IdleTimeout:  120 * time.Second,
		ErrorLog:     logging.StdLogger(logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on %s: %w", srv.Addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited gracefully")
	return nil
}

// wireMedia enables the photo archive and the food guard when AWS is configured.
func wireMedia(ctx context.Context, cfg config.Config, deps *api.Deps, logger hclog.Logger) error {
	if cfg.S3Bucket == "" && !cfg.FoodGuardEnabled {
		return nil
	}
	awsCfg, err := media.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return err
	}
	if cfg.S3Bucket != "" {
		deps.Photos = media.NewS3Archive(awsCfg, cfg.S3Bucket, cfg.PhotoBaseURL)
		logger.Info("meal photo archive enabled", "bucket", cfg.S3Bucket)
	}
	if cfg.FoodGuardEnabled {
		deps.Guard = media.NewRekognitionGuard(awsCfg)
		logger.Info("food guard enabled")
	}
	return nil
}
