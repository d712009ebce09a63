package mapping

import (
	"context"
	"path"
	"strings"

	"github.com/oneconcern/chunkmap/pkg/mapping/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/tree"
	treestatus "github.com/oneconcern/chunkmap/pkg/tree/status"
	"github.com/segmentio/ksuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InitramfsImage is the name of the initramfs image in a kernel directory
const InitramfsImage = "initramfs.img"

// Result of a mapping build
type Result struct {
	// Map assigns an owner to every content object
	Map map[string]string

	// Synthetic owners found in the tree, other than the unpackaged bucket
	Synthetic []model.OwnerMetadata

	// Objects is the number of distinct content objects
	Objects int

	// Duplicates maps checksums reached through several paths to these paths
	Duplicates map[string][]string

	// MultipleOwners maps paths claimed by several owners to these owners
	MultipleOwners map[string][]string

	// Unresolved counts package paths that could not be found in the tree
	Unresolved uint64

	// Unpackaged counts content objects assigned to the unpackaged bucket
	Unpackaged int
}

type builder struct {
	tree       tree.Tree
	acc        *accumulator
	unresolved *atomic.Uint64
	synthetic  []model.OwnerMetadata
	*options
}

// Build the mapping of content objects to owners
func Build(ctx context.Context, records model.PackageRecords, t tree.Tree, opts ...Option) (*Result, error) {
	o := defaultOptions(opts)
	if o.runID == "" {
		o.runID = ksuid.New().String()
	}
	o.l = o.l.With(zap.String("run", o.runID))

	b := &builder{
		tree:       t,
		acc:        newAccumulator(),
		unresolved: atomic.NewUint64(0),
		options:    o,
	}

	if err := b.kernelArtifacts(ctx); err != nil {
		return nil, err
	}

	if err := b.packageFiles(ctx, records); err != nil {
		return nil, err
	}

	if err := b.walk(ctx, "/"); err != nil {
		return nil, err
	}

	mapping := b.acc.resolve(model.UnpackagedID)

	result := &Result{
		Map:            mapping,
		Synthetic:      b.synthetic,
		Objects:        len(b.acc.checksumPaths),
		Duplicates:     b.acc.duplicates(),
		MultipleOwners: b.acc.multipleOwners(),
		Unresolved:     b.unresolved.Load(),
	}
	for _, owner := range mapping {
		if owner == model.UnpackagedID {
			result.Unpackaged++
		}
	}

	return result, nil
}

// kernelArtifacts maps the initramfs image of every kernel to a synthetic owner
func (b *builder) kernelArtifacts(ctx context.Context) error {
	kernels, err := b.tree.Kernels(ctx)
	if err != nil {
		return status.ErrTreeRead.WrapMessage("detecting kernels").Wrap(err)
	}

	for _, kernel := range kernels {
		pth := path.Join(kernel.Dir, InitramfsImage)
		node, err := b.tree.Resolve(ctx, pth)
		if err != nil {
			if tree.IsNotFound(err) {
				continue
			}
			return status.ErrTreeRead.WrapMessage("%s", pth).Wrap(err)
		}
		if !node.Type.IsContent() {
			continue
		}

		owner := model.InitramfsID(kernel.Version)
		b.acc.addPath(node.Checksum, node.Path)
		b.acc.addOwner(node.Path, owner)
		b.acc.skip.add(node.Path)
		b.synthetic = append(b.synthetic, model.SyntheticOwner(owner, model.InitramfsName))

		b.l.Debug("kernel artifact", zap.String("owner", owner), zap.String("path", node.Path))
	}

	return nil
}

// packageFiles resolves the files of all packages in parallel.
//
// Claims are collected per package then merged in package order, once all packages are resolved.
func (b *builder) packageFiles(ctx context.Context, records model.PackageRecords) error {
	shards := make([]shard, len(records))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency)

	for i := range records {
		i := i
		group.Go(func() error {
			s, err := b.resolvePackage(gctx, records[i].Package)
			if err != nil {
				return err
			}
			shards[i] = s
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, s := range shards {
		b.acc.merge(s)
	}

	return nil
}

func (b *builder) resolvePackage(ctx context.Context, pkg model.Package) (shard, error) {
	s := shard{owner: pkg.Identifier, claims: make([]claim, 0, len(pkg.Files))}

	for _, pth := range pkg.Files {
		node, err := b.tree.Resolve(ctx, pth)
		if err != nil {
			if tree.IsNotFound(err) {
				b.unresolved.Inc()
				continue
			}
			return shard{}, status.ErrTreeRead.WrapMessage("package %s: %s", pkg.Identifier, pth).Wrap(err)
		}
		if !node.Type.IsContent() {
			continue
		}

		s.claims = append(s.claims, claim{checksum: node.Checksum, path: node.Path})
	}

	return s, nil
}

func (b *builder) excluded(pth string) bool {
	for _, prefix := range b.excludes {
		prefix = strings.TrimSuffix(prefix, "/")
		if prefix == "" {
			continue
		}
		if pth == prefix || strings.HasPrefix(pth, prefix+"/") {
			return true
		}
	}
	return false
}

// walk the tree, collecting content objects no package has reached
func (b *builder) walk(ctx context.Context, dir string) error {
	entries, err := b.tree.ReadDir(ctx, dir)
	if err != nil {
		return status.ErrTreeRead.WrapMessage("%s", dir).Wrap(err)
	}

	for _, entry := range entries {
		pth := path.Join(dir, entry.Name)
		if b.excluded(pth) {
			continue
		}

		switch entry.Type {
		case tree.TypeDir:
			if err := b.walk(ctx, pth); err != nil {
				return err
			}

		case tree.TypeFile, tree.TypeSymlink:
			if _, skipped := b.acc.skip[pth]; skipped {
				delete(b.acc.skip, pth)
				continue
			}

			node, err := b.tree.Resolve(ctx, pth)
			if err != nil {
				return status.ErrTreeRead.WrapMessage("%s", pth).Wrap(err)
			}
			if !b.acc.hasChecksum(node.Checksum) {
				b.acc.addPath(node.Checksum, node.Path)
			}

		default:
			return status.ErrTreeRead.WrapMessage("%s", pth).Wrap(treestatus.ErrUnhandledType.WrapMessage("%v", entry.Type))
		}
	}

	return nil
}
