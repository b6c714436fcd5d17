package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/locdesk/loc-file-service/config"
	"github.com/locdesk/loc-file-service/consumer/worker"
	infraPkg "github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/provider"
	"github.com/locdesk/loc-file-service/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra.Postgres.DB)
	prov := provider.InitProvider(infra, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconcileConsumer := worker.NewReconcileConsumer(infra.RabbitMQ.Channel, infra, prov.Reconciler)
	if err := reconcileConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Reconcile consumer: %v", err)
		log.Fatalf("Failed to start Reconcile consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
