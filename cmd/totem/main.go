package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	totemcmd "github.com/luan640/nr01facil/internal/cmd/totem"
)

func main() {
	cfg, err := totemcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[TOTEM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := totemcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}
