// Package mapping assigns every content object of a tree to exactly one owner.
//
// A mapping build goes through the following steps:
//   - kernel artifacts: the initramfs image of every kernel gets a synthetic owner
//   - package files: every path claimed by a package is resolved to its content object
//   - tree walk: content objects claimed by no package are collected
//   - ownership: every content object is assigned to one owner, or to the unpackaged bucket
//
// Generate completes a build with owner metadata and diagnostics.
package mapping
