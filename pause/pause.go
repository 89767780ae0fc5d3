// Package pause lets the user suspend a running transfer from the terminal.
package pause

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// Gate is a process wide pause flag. It is safe to toggle from one goroutine
// while another polls it.
type Gate struct {
	paused atomic.Bool
}

// Paused reports whether work should currently be suspended
func (g *Gate) Paused() bool {
	return g.paused.Load()
}

// Set pauses or resumes work
func (g *Gate) Set(paused bool) {
	g.paused.Store(paused)
}

// Toggle flips the flag and returns the new state
func (g *Gate) Toggle() bool {
	for {
		old := g.paused.Load()
		if g.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Listen toggles the gate every time a line is read from r, until r is
// exhausted or ctx is done.
func (g *Gate) Listen(ctx context.Context, r io.Reader) {
	lines := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-lines:
			if !ok {
				return
			}
			if g.Toggle() {
				slog.Info("Paused, press Enter to resume")
			} else {
				slog.Info("Resumed")
			}
		}
	}
}

// ListenTerminal starts listening on stdin in the background if stdin is an
// interactive terminal. It reports whether a listener was started.
func (g *Gate) ListenTerminal(ctx context.Context) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		slog.Debug("Stdin is not a terminal, pausing is disabled")
		return false
	}

	go g.Listen(ctx, os.Stdin)
	slog.Info("Press Enter at any time to pause or resume")
	return true
}
