package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"vnstock-service/internal/delivery/http"
	"vnstock-service/internal/dto"
	"vnstock-service/internal/repository"
	"vnstock-service/internal/service"
	"vnstock-service/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the company data API",
	Run:   Serve,
}

func Serve(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	if err := repo.CompanyRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	scheduler := startSyncCron(ctx, appDep, services)

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}

// startSyncCron schedules periodic full syncs when sync.cron is set.
func startSyncCron(ctx context.Context, appDep *AppDependency, services *service.Service) *cron.Cron {
	expr := appDep.cfg.Sync.Cron
	if expr == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		appDep.log.Info("Starting scheduled sync run", logger.StringField("cron", expr))
		if _, err := services.SyncService.Run(ctx, dto.SyncOptions{SkipExisting: false}); err != nil {
			appDep.log.Error("Scheduled sync run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		appDep.log.Error("Invalid sync cron expression", logger.StringField("cron", expr), logger.ErrorField(err))
		return nil
	}

	c.Start()
	appDep.log.Info("Sync scheduler started", logger.StringField("cron", expr))
	return c
}
