package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/junsooki/RegionWatch/internal/capture"
	"github.com/junsooki/RegionWatch/internal/config"
	"github.com/junsooki/RegionWatch/internal/input"
	"github.com/junsooki/RegionWatch/internal/log"
	"github.com/junsooki/RegionWatch/internal/monitor"
	"github.com/junsooki/RegionWatch/internal/notify"
	"github.com/junsooki/RegionWatch/internal/permissions"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "regionwatch: %v\n", err)
		return 2
	}
	log.Init(cfg.LogLevel)

	if err := cfg.Complete(input.NewPrompter(os.Stdin, os.Stdout)); err != nil {
		log.Error("Reading configuration failed", "error", err)
		return 1
	}

	log.Info("RegionWatch starting",
		"webhook", webhookHost(cfg.WebhookURL),
		"region", cfg.Region.String(),
		"interval", cfg.Interval,
		"save", cfg.Save,
		"relay", cfg.RelayURL,
	)
	if cfg.Region.Empty() {
		log.Warn("Region is empty; every capture will be zero-size", "region", cfg.Region.String())
	}

	// Check permissions.
	if err := permissions.CheckScreenCapture(); err != nil {
		log.Error("Exiting", "error", err)
		return 1
	}

	// Screen capture.
	capturer, err := capture.NewScreenCapturer(cfg.Region)
	if err != nil {
		log.Error("Exiting: capture init failed", "error", err)
		return 1
	}

	// Notifiers.
	var n notify.Notifier = notify.NewWebhook(cfg.WebhookURL, cfg.Timeout)
	if cfg.RelayURL != "" {
		relay := notify.NewRelay(cfg.RelayURL)
		defer relay.Close()
		n = notify.Multi{n, relay}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(monitor.Options{
		Message:  cfg.Message,
		Interval: cfg.Interval,
		Save:     cfg.Save,
		SaveDir:  cfg.SaveDir,
	}, capturer, n)

	err = mon.Run(ctx)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		log.Info("Shutting down...")
		return 0
	}
	log.Error("Exiting", "state", mon.State().String(), "error", err)
	return 1
}

// webhookHost strips the path, which for most webhook providers is the secret.
func webhookHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(unparsed)"
	}
	return u.Scheme + "://" + u.Host
}
