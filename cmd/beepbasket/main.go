package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beepbasket/beepbasket/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	debounceMS := flag.Int("debounce", 0, "refresh debounce window in milliseconds (optional, defaults to 800)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if ms := *debounceMS; ms > 0 {
		opts.DebounceWindow = time.Duration(ms) * time.Millisecond
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "beepbasket: %v\n", err)
		return 1
	}
	return 0
}
