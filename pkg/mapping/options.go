package mapping

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// DefaultExcludes are the subtrees skipped by the tree walk by default
var DefaultExcludes = []string{"/sysroot"}

// Option for a mapping build
type Option func(*options)

type options struct {
	concurrency int
	excludes    []string
	buildTime   time.Time
	runID       string
	l           *zap.Logger
}

func defaultOptions(opts []Option) *options {
	o := &options{
		concurrency: runtime.NumCPU(),
		excludes:    DefaultExcludes,
		buildTime:   time.Now(),
		l:           zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// Concurrency sets the maximum number of packages resolved in parallel
func Concurrency(concurrency int) Option {
	return func(o *options) {
		if concurrency > 0 {
			o.concurrency = concurrency
		}
	}
}

// Exclude subtrees from the tree walk, e.g. the metadata of the store holding the tree.
// This replaces the default excludes.
func Exclude(prefixes ...string) Option {
	return func(o *options) {
		o.excludes = prefixes
	}
}

// WithBuildTime sets the time of the build, used for packages without change history
func WithBuildTime(t time.Time) Option {
	return func(o *options) {
		if !t.IsZero() {
			o.buildTime = t
		}
	}
}

// WithRunID sets the identifier of this run in logs
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// Logger for the mapping build
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}
