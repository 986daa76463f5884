package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/eviterin/thegate/internal/api"
	"github.com/eviterin/thegate/internal/config"
	"github.com/eviterin/thegate/internal/logging"
	"github.com/eviterin/thegate/internal/notify"
	"github.com/eviterin/thegate/internal/service"
	"github.com/eviterin/thegate/internal/version"
)

func main() {
	var env config.ServerEnv
	if err := config.ParseEnv(&env); err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	logging.Configure(env.LogLevel, env.LogFormat)
	logging.Info("thegate authority", logging.Fields{"version": version.String()})

	cfg := loadConfigOrExit(env.ConfigPath)
	addr := cfg.ServerAddress
	if env.Address != "" {
		addr = env.Address
	}

	repo := createRepositoryOrExit(env.DBPath)
	hub := notify.NewHub()
	svc, err := service.New(repo, cfg, service.Options{
		Seed:      env.Seed,
		BlockTime: env.BlockTime,
		Notifier:  hub,
	})
	if err != nil {
		logging.Fatal("Failed to start authority", err, nil)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewGameHandler(svc, hub))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, addr, router, svc); err != nil {
		logging.Fatal("Server stopped", err, nil)
	}
	logging.Info("Server stopped", nil)
}
