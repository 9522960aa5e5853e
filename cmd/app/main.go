package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

func run(ctx context.Context) error {
	app, cleanup, err := initializeApp()
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run(ctx)
}
