package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ReviewReporter/internal/app"
	"ReviewReporter/internal/config"
	"ReviewReporter/internal/logging"
)

const prompt = "Enter the Google Play App URL or App ID: "

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	input := flag.Arg(0)
	if input == "" {
		fmt.Print(prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logger.Error("read app id", "error", err)
			os.Exit(1)
		}
		input = strings.TrimSpace(line)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	outcome := application.Run(ctx, input)
	if closeErr := application.Close(); closeErr != nil {
		logger.Warn("close application", "error", closeErr)
	}
	if outcome.Err != nil {
		logger.Error("report generation failed", "error", outcome.Err)
		os.Exit(1)
	}

	fmt.Printf("Report saved as %s\n", outcome.Path)
}
