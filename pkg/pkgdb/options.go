package pkgdb

import (
	"runtime"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option for a package database
type Option func(*options)

type options struct {
	sysroot     string
	path        string
	rpm         string
	fs          afero.Fs
	runner      Runner
	concurrency int
	l           *zap.Logger
}

func defaultOptions(opts []Option) *options {
	o := &options{
		rpm:         DefaultRPMBinary,
		fs:          afero.NewOsFs(),
		runner:      execRunner,
		concurrency: runtime.NumCPU(),
		l:           zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// WithSysroot sets the root filesystem where the database is located
func WithSysroot(sysroot string) Option {
	return func(o *options) {
		o.sysroot = sysroot
	}
}

// WithPath sets the location of the database, relative to the sysroot
func WithPath(pth string) Option {
	return func(o *options) {
		o.path = pth
	}
}

// WithRPMBinary sets the rpm command to run
func WithRPMBinary(bin string) Option {
	return func(o *options) {
		if bin != "" {
			o.rpm = bin
		}
	}
}

// WithFs sets the filesystem to read package dumps from
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithRunner sets the command runner for command line backends
func WithRunner(runner Runner) Option {
	return func(o *options) {
		if runner != nil {
			o.runner = runner
		}
	}
}

// Concurrency sets the maximum number of concurrent queries
func Concurrency(concurrency int) Option {
	return func(o *options) {
		if concurrency > 0 {
			o.concurrency = concurrency
		}
	}
}

// Logger for the package database
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}
