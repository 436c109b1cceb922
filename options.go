package libjio

import (
	"github.com/Patrickaos/libjio/internal/jiolog"
	"github.com/Patrickaos/libjio/internal/jiometrics"
	"github.com/sirupsen/logrus"
)

// Options configures a File beyond the POSIX open() arguments and
// EngineFlags.
type Options struct {
	// JournalDir overrides the derived journal directory path.
	JournalDir string
	// Logger receives structured diagnostics from commit and recovery.
	// Defaults to a quiet (warn-level) logrus.Logger.
	Logger *logrus.Logger
	// Metrics, when set, is incremented as commits/rollbacks/replays
	// occur.
	Metrics *jiometrics.Registry
}

// Option mutates Options; see WithJournalDir, WithLogger, WithMetrics.
type Option func(*Options)

// WithJournalDir overrides the default /D/.F.jio journal directory.
func WithJournalDir(dir string) Option {
	return func(o *Options) { o.JournalDir = dir }
}

// WithLogger sets the logger used for commit/recovery diagnostics.
func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics attaches a counter registry.
func WithMetrics(m *jiometrics.Registry) Option {
	return func(o *Options) { o.Metrics = m }
}

func buildOptions(opts []Option) Options {
	o := Options{Logger: jiolog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = jiolog.Default()
	}
	return o
}
