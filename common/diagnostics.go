package common

import (
	"fmt"
	"log/slog"
	"sync"
)

// Diagnostics collects non-fatal data-quality warnings ("userbugs")
// raised while processing a track. Every warning is also logged.
// Callers decide whether accumulated warnings are worth halting on.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []string
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warn records msg, formatted with slog-style key/value args, and logs it.
// A nil receiver only logs.
func (d *Diagnostics) Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
	if d == nil {
		return
	}
	line := msg
	for i := 0; i+1 < len(args); i += 2 {
		line += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	d.mu.Lock()
	d.warnings = append(d.warnings, line)
	d.mu.Unlock()
}

// Warnings returns a copy of the recorded warnings in order.
func (d *Diagnostics) Warnings() []string {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)
	return out
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}
