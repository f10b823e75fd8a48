package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dm-vev/voxeltick/server"
	"github.com/dm-vev/voxeltick/server/console"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	uc, err := server.ReadConfig("config.toml")
	if err != nil {
		log.Error("Could not read config.", "error", err)
		os.Exit(1)
	}
	conf, err := uc.Config(log)
	if err != nil {
		log.Error("Invalid config.", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := conf.New()
	go console.New(srv, log, cancel).Run(ctx)

	if err := srv.Run(ctx); err != nil {
		log.Error("Server stopped with an error.", "error", err)
		os.Exit(1)
	}
}
