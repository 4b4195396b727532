package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates a text logger writing to w at the given level
// (debug, info, warn or error).
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
