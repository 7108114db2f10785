package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

type Options struct {
	Debug bool
	// Format is "text" (colored console) or "json".
	Format  string
	NoColor bool
}

// New builds the run logger. Logs go to w (stderr in the CLI) so stdout stays
// reserved for results.
func New(w io.Writer, o Options) (*slog.Logger, error) {
	level := slog.LevelInfo
	if o.Debug {
		level = slog.LevelDebug
	}

	switch strings.ToLower(o.Format) {
	case "", "text":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  o.Debug,
			NoColor:    o.NoColor,
		})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	}
	return nil, fmt.Errorf("unknown log format %q (use text or json)", o.Format)
}
