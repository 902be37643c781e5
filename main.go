package main

import (
	"log/slog"
	"os"

	"github.com/TajwarSaiyeed/laptop-zone-server/config"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := api.StartServer(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
