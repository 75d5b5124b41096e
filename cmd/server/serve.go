package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"

	config "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/api"
	job "github.com/maheshrc27/threads-gateway/internal/jobs"
	"github.com/maheshrc27/threads-gateway/internal/service"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	client := newThreadsClient(cfg)

	var (
		stager    service.Stager
		sweepCron *cron.Cron
	)
	if cfg.ImageTransport == config.ImageTransportURL {
		s3Client, err := service.NewR2Client(ctx, cfg.R2)
		if err != nil {
			return err
		}
		r2Service := service.NewR2Service(s3Client, cfg.R2)
		stager = r2Service

		sweepJob := job.NewStagedUploadSweepJob(r2Service, cfg.StagedUploadMaxAge)
		sweepCron = cron.New()
		if err := sweepCron.AddFunc("@every 00h10m00s", sweepJob.Sweep); err != nil {
			return err
		}
		sweepCron.Start()
	}

	app := api.NewApp(*cfg, api.Services{
		Auth:       service.NewAuthService(*cfg, client),
		Credential: service.NewCredentialService(client),
		Profile:    service.NewProfileService(client),
		Publish:    service.NewPublishService(client, service.NewMediaService(), stager, cfg.ImageTransport),
	})

	if cfg.SecretKey == "" {
		slog.Warn("SECRET_KEY is not set, /api/auth/login is disabled and callback state cannot be verified")
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "image_transport", cfg.ImageTransport)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	return gracefulShutdown(app, sweepCron, errCh)
}

func gracefulShutdown(app *fiber.App, sweepCron *cron.Cron, errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if sweepCron != nil {
			sweepCron.Stop()
		}
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	if sweepCron != nil {
		sweepCron.Stop()
	}
	if err := app.Shutdown(); err != nil {
		return err
	}
	slog.Info("server shutdown complete")
	return nil
}
