package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/savingsboard/core/cmd/api/commands"
)

// @title SavingsBoard API
// @version 1.0
// @description 200 deposits savings challenge

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Printf("Command execution failed: %v", err)
		stop()
		os.Exit(1)
	}
}
