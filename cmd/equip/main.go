package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/equip/internal/app"
	"github.com/five82/equip/internal/mockapi"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(args) > 0 && args[0] == "serve" {
		return serve(ctx, args[1:])
	}

	fs := flag.NewFlagSet("equip", flag.ContinueOnError)
	configPath := fs.String("config", "", "override equip config path (optional)")
	prefsPath := fs.String("prefs", "", "override preferences path (optional)")
	role := fs.String("role", "employee", "demo role: admin or employee")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Role:       *role,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "equip: %v\n", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("equip serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8787", "listen address")
	metrics := fs.Bool("metrics", false, "expose Prometheus metrics on /metrics")
	latency := fs.Duration("latency", 0, "delay every API response (for timeout testing)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	srv := mockapi.New(mockapi.Options{Metrics: *metrics, Latency: *latency})
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "equip serve: %v\n", err)
		return 1
	}
	return 0
}
