package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/PocketPalCo/receipt-service/config"
	"github.com/PocketPalCo/receipt-service/internal/infra/postgres"
	"github.com/PocketPalCo/receipt-service/internal/infra/server"
	"github.com/PocketPalCo/receipt-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	mainContext := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defaultLogger := logger.NewLogger(&cfg)
	slog.SetDefault(defaultLogger)

	var conn *pgxpool.Pool
	if cfg.DbHost != "" {
		conn, err = postgres.Init(cfg)
		if err != nil {
			slog.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	srv := server.New(mainContext, &cfg, conn)
	if srv == nil {
		slog.Error("failed to initialize server")
		os.Exit(1)
	}

	srv.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	srv.Shutdown()
}
