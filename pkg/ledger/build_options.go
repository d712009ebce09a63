package ledger

import (
	"time"

	"github.com/oneconcern/chunkmap/pkg/model"
	"go.uber.org/zap"
)

// BuildOption configures how package records are built
type BuildOption func(*buildOptions)

type buildOptions struct {
	source      Source
	resolution  Resolution
	buildTime   time.Time
	previous    model.PackageRecords
	hasPrevious bool
	changes     ChangeSource
	l           *zap.Logger
}

func defaultBuildOptions(opts []BuildOption) *buildOptions {
	o := &buildOptions{
		source:     SourcePreviousIndex,
		resolution: ResolutionWeekly,
		buildTime:  time.Now(),
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// WithSource selects where the changelog of packages comes from
func WithSource(s Source) BuildOption {
	return func(o *buildOptions) {
		o.source = s
	}
}

// WithResolution sets the resolution used to quantize the build time
func WithResolution(r Resolution) BuildOption {
	return func(o *buildOptions) {
		o.resolution = r
	}
}

// WithBuildTime sets the current build time (defaults to now)
func WithBuildTime(t time.Time) BuildOption {
	return func(o *buildOptions) {
		o.buildTime = t
	}
}

// WithPrevious provides the records from the previous run
func WithPrevious(records model.PackageRecords) BuildOption {
	return func(o *buildOptions) {
		o.previous = records
		o.hasPrevious = true
	}
}

// WithChangeSource provides the package database used as changelog source
func WithChangeSource(cs ChangeSource) BuildOption {
	return func(o *buildOptions) {
		o.changes = cs
	}
}

// Logger for the build
func Logger(l *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.l = l
		}
	}
}
