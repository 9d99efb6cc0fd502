// Package main is the entry point for the tasknest CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tasknest/internal/backend/resttasks"
	"tasknest/internal/cli"
	"tasknest/internal/commands"
	"tasknest/internal/config"
	"tasknest/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config, tok *oauth2.Token, logger *zap.Logger) (service.Service, error) {
		return resttasks.New(ctx, cfg, tok, logger)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
