package tree

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"syscall"

	lru "github.com/hashicorp/golang-lru"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/tree/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	checksumSize = 32

	fileTag    = "file\x00"
	symlinkTag = "symlink\x00"
)

var _ Tree = &FS{}

// FS is a content tree backed by an afero filesystem.
//
// Symbolic links are supported when the filesystem implements afero.Lstater and afero.LinkReader,
// e.g. afero.OsFs or afero.BasePathFs over it. The tree is safe for concurrent use.
type FS struct {
	fs        afero.Fs
	cacheSize int
	dirs      *lru.Cache // requested directory path -> dirResult
	checksums *lru.Cache // real path -> checksum
	l         *zap.Logger
}

type dirResult struct {
	realPath string
	found    bool
}

// New content tree over a filesystem
func New(fs afero.Fs, opts ...Option) (*FS, error) {
	t := &FS{
		fs:        fs,
		cacheSize: DefaultCacheSize,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(t)
	}

	var err error
	if t.dirs, err = lru.New(t.cacheSize); err != nil {
		return nil, err
	}
	if t.checksums, err = lru.New(t.cacheSize); err != nil {
		return nil, err
	}

	return t, nil
}

// NewDir builds a content tree rooted at some local directory
func NewDir(root string, opts ...Option) (*FS, error) {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root), opts...)
}

func nodeType(mode os.FileMode) NodeType {
	switch {
	case mode.IsDir():
		return TypeDir
	case mode.IsRegular():
		return TypeFile
	case mode&os.ModeSymlink != 0:
		return TypeSymlink
	default:
		return TypeOther
	}
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}

func (t *FS) lstat(name string) (os.FileInfo, error) {
	if lstater, ok := t.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return t.fs.Stat(name)
}

func (t *FS) readlink(name string) (string, error) {
	reader, ok := t.fs.(afero.LinkReader)
	if !ok {
		return "", status.ErrUnhandledType.WrapMessage("symbolic links are not supported on %s", t.fs.Name())
	}
	return reader.ReadlinkIfPossible(name)
}

// ReadDir lists a directory, without following symbolic links
func (t *FS) ReadDir(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.ErrTreeRead.Wrap(err)
	}

	infos, err := afero.ReadDir(t.fs, dir)
	if err != nil {
		if isNotExist(err) {
			return nil, status.ErrNotFound.WrapMessage("%s", dir)
		}
		return nil, status.ErrTreeRead.WrapMessage("reading directory %s", dir).Wrap(err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), Type: nodeType(info.Mode())})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// Resolve an absolute path to a node
func (t *FS) Resolve(ctx context.Context, pth string) (Node, error) {
	if err := ctx.Err(); err != nil {
		return Node{}, status.ErrTreeRead.Wrap(err)
	}

	cleaned := path.Clean("/" + pth)
	if cleaned == "/" {
		return Node{Path: cleaned, Type: TypeDir}, nil
	}

	dir, err := t.resolveDir(path.Dir(cleaned), 0)
	if err != nil {
		return Node{}, err
	}

	realPath := path.Join(dir, path.Base(cleaned))
	info, err := t.lstat(realPath)
	if err != nil {
		if isNotExist(err) {
			return Node{}, status.ErrNotFound.WrapMessage("%s", pth)
		}
		return Node{}, status.ErrTreeRead.WrapMessage("%s", realPath).Wrap(err)
	}

	node := Node{Path: realPath, Type: nodeType(info.Mode())}
	if !node.Type.IsContent() {
		return node, nil
	}

	node.Checksum, err = t.checksum(realPath, node.Type)
	if err != nil {
		return Node{}, err
	}

	return node, nil
}

// resolveDir yields the real path of a directory, following symbolic links
func (t *FS) resolveDir(dir string, hops int) (string, error) {
	if dir == "/" {
		return dir, nil
	}
	if hops > MaxLinks {
		return "", status.ErrTooManyLinks.WrapMessage("%s", dir)
	}

	if cached, ok := t.dirs.Get(dir); ok {
		result := cached.(dirResult)
		if !result.found {
			return "", status.ErrNotFound.WrapMessage("%s", dir)
		}
		return result.realPath, nil
	}

	parent, err := t.resolveDir(path.Dir(dir), hops)
	if err != nil {
		return "", err
	}

	candidate := path.Join(parent, path.Base(dir))
	info, err := t.lstat(candidate)
	if err != nil {
		if isNotExist(err) {
			t.dirs.Add(dir, dirResult{})
			return "", status.ErrNotFound.WrapMessage("%s", dir)
		}
		return "", status.ErrTreeRead.WrapMessage("%s", candidate).Wrap(err)
	}

	var realPath string
	switch nodeType(info.Mode()) {
	case TypeDir:
		realPath = candidate

	case TypeSymlink:
		target, err := t.readlink(candidate)
		if err != nil {
			return "", status.ErrTreeRead.WrapMessage("reading link %s", candidate).Wrap(err)
		}
		if !strings.HasPrefix(target, "/") {
			target = path.Join(parent, target)
		}
		realPath, err = t.resolveDir(path.Clean(target), hops+1)
		if err != nil {
			return "", err
		}

	default:
		t.dirs.Add(dir, dirResult{})
		return "", status.ErrNotFound.WrapMessage("%s is not a directory", dir)
	}

	t.dirs.Add(dir, dirResult{realPath: realPath, found: true})

	return realPath, nil
}

func (t *FS) checksum(realPath string, typ NodeType) (string, error) {
	if cached, ok := t.checksums.Get(realPath); ok {
		return cached.(string), nil
	}

	hasher, err := blake2b.New(&blake2b.Config{Size: checksumSize})
	if err != nil {
		return "", status.ErrTreeRead.Wrap(err)
	}

	switch typ {
	case TypeSymlink:
		target, err := t.readlink(realPath)
		if err != nil {
			return "", status.ErrTreeRead.WrapMessage("reading link %s", realPath).Wrap(err)
		}
		_, _ = io.WriteString(hasher, symlinkTag)
		_, _ = io.WriteString(hasher, target)

	default:
		file, err := t.fs.Open(realPath)
		if err != nil {
			return "", status.ErrTreeRead.WrapMessage("opening %s", realPath).Wrap(err)
		}
		defer func() {
			_ = file.Close()
		}()

		_, _ = io.WriteString(hasher, fileTag)
		if _, err := io.Copy(hasher, file); err != nil {
			return "", status.ErrTreeRead.WrapMessage("reading %s", realPath).Wrap(err)
		}
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	t.checksums.Add(realPath, sum)

	return sum, nil
}

// Kernels lists directories under /usr/lib/modules holding a kernel image.
// A tree without such directory has no kernel.
func (t *FS) Kernels(ctx context.Context) ([]Kernel, error) {
	modules, err := t.resolveDir(ModulesDir, 0)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	entries, err := t.ReadDir(ctx, modules)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var kernels []Kernel
	for _, entry := range entries {
		if entry.Type != TypeDir {
			continue
		}

		dir := path.Join(modules, entry.Name)
		info, err := t.lstat(path.Join(dir, KernelImage))
		if err != nil {
			if isNotExist(err) {
				continue
			}
			return nil, status.ErrTreeRead.WrapMessage("%s", dir).Wrap(err)
		}
		if !nodeType(info.Mode()).IsContent() {
			continue
		}

		t.l.Debug("kernel found", zap.String("version", entry.Name), zap.String("dir", dir))
		kernels = append(kernels, Kernel{Version: entry.Name, Dir: dir})
	}

	return kernels, nil
}
