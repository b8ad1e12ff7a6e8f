// Package main is the production entry point for the GoVis visualizer.
//
// Build:
//
//	go build -o build/govis ./cmd
//
// Run:
//
//	./build/govis --file song.mp3
//	./build/govis render --file song.mp3 --frames 120 --out frames
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, runWindow); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
