package pkgdb

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/pkgdb/status"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRPMPath is the default location of the rpm database, relative to the sysroot
	DefaultRPMPath = "/usr/share/rpm"

	// DefaultRPMBinary is the default rpm command
	DefaultRPMBinary = "/usr/bin/rpm"

	rpmQueryFormat     = "%{nevra},%{name},%{version},%{sourcerpm},%{size}\\n"
	rpmChangelogFormat = "[%{CHANGELOGTIME}\\n]"
	rpmNoFiles         = "(contains no files)"
	rpmNone            = "(none)"
)

// Runner runs a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var _ Database = &RPM{}

// RPM package database, queried with the rpm command line
type RPM struct {
	dbpath      string
	rpm         string
	runner      Runner
	concurrency int
	l           *zap.Logger
}

// NewRPM builds a rpm package database located at dbpath
func NewRPM(dbpath string, opts ...Option) *RPM {
	o := defaultOptions(opts)

	o.l.Debug("rpm package database", zap.String("dbpath", dbpath))

	return &RPM{
		dbpath:      dbpath,
		rpm:         o.rpm,
		runner:      o.runner,
		concurrency: o.concurrency,
		l:           o.l,
	}
}

func (r *RPM) query(ctx context.Context, args ...string) ([]byte, error) {
	out, err := r.runner(ctx, r.rpm, append([]string{"--dbpath", r.dbpath}, args...)...)
	if err != nil {
		return nil, status.ErrQuery.WrapMessage("rpm %s", strings.Join(args, " ")).Wrap(err)
	}
	return out, nil
}

// Packages lists installed packages, then the files of each package
func (r *RPM) Packages(ctx context.Context) (model.Packages, error) {
	out, err := r.query(ctx, "-q", "--queryformat", rpmQueryFormat, "-a")
	if err != nil {
		return nil, err
	}

	pkgs, err := parseRPMPackages(out)
	if err != nil {
		return nil, err
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i := range pkgs {
		i := i
		group.Go(func() error {
			files, err := r.files(gctx, pkgs[i].Identifier)
			if err != nil {
				return err
			}
			pkgs[i].Files = files
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	r.l.Debug("rpm packages read", zap.String("dbpath", r.dbpath), zap.Int("packages", len(pkgs)))

	return pkgs, nil
}

func (r *RPM) files(ctx context.Context, nevra string) ([]string, error) {
	out, err := r.query(ctx, "-ql", nevra)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, line := range lines(out) {
		if line == rpmNoFiles {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// Changes yields the changelog entry times of a package
func (r *RPM) Changes(ctx context.Context, pkg model.Package) ([]uint64, error) {
	out, err := r.query(ctx, "-q", "--queryformat", rpmChangelogFormat, pkg.Identifier)
	if err != nil {
		return nil, err
	}

	changes := []uint64{}
	for _, line := range lines(out) {
		if line == rpmNone {
			continue
		}
		ts, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return nil, status.ErrUnexpectedOutput.WrapMessage("changelog time %q for %s", line, pkg.Identifier).Wrap(err)
		}
		changes = append(changes, ts)
	}
	return changes, nil
}

func parseRPMPackages(out []byte) (model.Packages, error) {
	pkgs := model.Packages{}
	for _, line := range lines(out) {
		components := strings.Split(line, ",")
		if len(components) != 5 {
			return nil, status.ErrUnexpectedOutput.WrapMessage("%q", line)
		}

		size, err := strconv.ParseUint(components[4], 10, 64)
		if err != nil {
			return nil, status.ErrUnexpectedOutput.WrapMessage("size in %q", line).Wrap(err)
		}

		pkgs = append(pkgs, model.Package{
			Identifier: components[0],
			Name:       components[1],
			Version:    components[2],
			Source:     components[3],
			Size:       size,
		})
	}
	return pkgs, nil
}

// lines yields the non-empty lines of some command output
func lines(out []byte) []string {
	var result []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result = append(result, line)
	}
	return result
}
