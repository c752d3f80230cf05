// Package main demonstrates embedding the line editor in a host program:
// it reads lines while background goroutines print progress above the
// prompt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/linestorm"
	"github.com/dshills/linestorm/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML or TOML config file")
	flag.Parse()

	cfg := linestorm.DefaultConfig()
	if *configPath != "" {
		loaded, err := linestorm.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	t, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	defer t.Close()

	ed, err := linestorm.New(t, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create editor: %v\n", err)
		return 1
	}
	defer ed.Close()

	// Resize notifications: signal handling stays with the host.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			t.NotifyResize()
		}
	}()

	// A background worker sharing the terminal through the editor.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tick(ctx, ed.Writer())

	out := ed.Writer()
	for {
		res, err := ed.ReadLine(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		switch res.Kind {
		case linestorm.ResultLine:
			fmt.Fprintf(out, "you typed: %q\n", res.Line)
		case linestorm.ResultInterrupt:
			fmt.Fprintln(out, "interrupted, type Ctrl+D to exit")
		case linestorm.ResultEOF:
			return 0
		}
	}
}

// tick prints a heartbeat above the prompt until the context ends.
func tick(ctx context.Context, w *linestorm.SharedWriter) {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n++
			if _, err := fmt.Fprintf(w, "tick %d\n", n); err != nil {
				if errors.Is(err, linestorm.ErrWriterClosed) {
					return
				}
			}
		}
	}
}
