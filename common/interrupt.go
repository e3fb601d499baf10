package common

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func notifyInterrupt() chan os.Signal {
	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt,
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT,
	)
	return interrupt
}

// InterruptedContext is canceled on the first interrupt or when cancel is called.
func InterruptedContext(parent context.Context) (ctx context.Context, cancel context.CancelFunc) {
	ctx, cancel = context.WithCancel(parent)
	sigs := notifyInterrupt()
	go func() {
		select {
		case sig := <-sigs:
			slog.Warn("Received signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}
