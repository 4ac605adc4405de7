package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/impactasaurus/impact/internal/bootstrap"
	"github.com/impactasaurus/impact/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(config.Load())
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("warning: close: %v", err)
		}
	}()
	if err := app.Serve(ctx); err != nil {
		log.Printf("server error: %v", err)
	}
}
