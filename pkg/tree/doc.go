// Package tree exposes a read-only content tree: a root filesystem in which
// every regular file and symbolic link is a content object identified by its checksum.
//
// Checksums are hex-encoded blake2b-256 digests, computed over a type tag
// followed by the file content, or the link target for a symbolic link.
package tree
