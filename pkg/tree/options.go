package tree

import "go.uber.org/zap"

const (
	// DefaultCacheSize is the default number of entries in the directory and checksum caches
	DefaultCacheSize = 65536

	// MaxLinks is the maximum number of symbolic links followed when resolving a path
	MaxLinks = 40

	// ModulesDir holds kernel version directories
	ModulesDir = "/usr/lib/modules"

	// KernelImage marks a kernel version directory
	KernelImage = "vmlinuz"
)

// Option for a content tree
type Option func(*FS)

// CacheSize sets the size of the directory and checksum caches
func CacheSize(size int) Option {
	return func(t *FS) {
		if size > 0 {
			t.cacheSize = size
		}
	}
}

// Logger for the content tree
func Logger(l *zap.Logger) Option {
	return func(t *FS) {
		if l != nil {
			t.l = l
		}
	}
}
