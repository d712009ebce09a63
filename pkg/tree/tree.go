package tree

import (
	"context"
	"fmt"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/tree/status"
)

// NodeType is the type of a node in the content tree
type NodeType uint8

// Node types
const (
	TypeOther NodeType = iota
	TypeDir
	TypeFile
	TypeSymlink
)

func (t NodeType) String() string {
	switch t {
	case TypeDir:
		return "directory"
	case TypeFile:
		return "regular file"
	case TypeSymlink:
		return "symbolic link"
	default:
		return "other"
	}
}

// IsContent tells if a node of this type is a content object
func (t NodeType) IsContent() bool {
	return t == TypeFile || t == TypeSymlink
}

// Entry in a directory
type Entry struct {
	Name string
	Type NodeType
	_    struct{}
}

// Node is a resolved path in the tree.
//
// Path is the real path, after intermediate symbolic links have been followed.
// Checksum is only set for content objects.
type Node struct {
	Path     string
	Type     NodeType
	Checksum string
	_        struct{}
}

func (n Node) String() string {
	if n.Checksum == "" {
		return fmt.Sprintf("%s (%v)", n.Path, n.Type)
	}
	return fmt.Sprintf("%s (%v, %s)", n.Path, n.Type, n.Checksum)
}

// Kernel is a kernel version directory, e.g. /usr/lib/modules/6.8.5-301.fc40.x86_64
type Kernel struct {
	Version string
	Dir     string
	_       struct{}
}

// Tree is a read-only content tree
type Tree interface {
	// ReadDir lists the entries of a directory, sorted by name. Symbolic links are not followed.
	ReadDir(ctx context.Context, dir string) ([]Entry, error)

	// Resolve an absolute path. Symbolic links are followed for intermediate directories, not for the last component.
	// A missing path yields an error matching status.ErrNotFound.
	Resolve(ctx context.Context, pth string) (Node, error)

	// Kernels lists the kernel directories found in the tree, sorted by version
	Kernels(ctx context.Context) ([]Kernel, error)
}

// IsNotFound tells if an error from a Tree means the path could not be resolved.
// Such errors are expected: package metadata may be stale.
func IsNotFound(err error) bool {
	return errors.Is(err, status.ErrNotFound) || errors.Is(err, status.ErrTooManyLinks)
}
