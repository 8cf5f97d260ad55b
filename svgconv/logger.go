package svgconv

import (
	"log/slog"

	"github.com/benoitkugler/svgtree/svgdom"
)

// SetLogger configures the logger used to report the problems
// found in the input documents, both while loading and converting.
// By default, nothing is logged. Pass nil to restore the silent default.
func SetLogger(l *slog.Logger) { svgdom.SetLogger(l) }

// Logger returns the current logger.
func Logger() *slog.Logger { return svgdom.Logger() }

func warn(msg string, args ...any) { Logger().Warn(msg, args...) }
