package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/locdesk/loc-file-service/config"
	"github.com/locdesk/loc-file-service/http/controller"
	routes "github.com/locdesk/loc-file-service/http/route"
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

	ctrl := controller.NewController(cfg, infra, repo, prov)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :" + cfg.EnvConfig.HTTPPort)
	if err := router.Run(":" + cfg.EnvConfig.HTTPPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
