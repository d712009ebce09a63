// Package model describes the base objects manipulated by chunkmap.
//
// The object model is composed of:
//
//  Packages:
//    An installed unit as reported by a package database, owning a set of absolute paths.
//
//  Package records:
//    A package together with its bounded change history (the ledger entry).
//    Records are persisted from one run to the next, keyed by package name.
//
//  Owners:
//    The package identifier (or synthetic bucket) to which a content object is attributed.
//
//  Content metadata:
//    The checksum to owner mapping plus one OwnerMetadata per owner, handed over to the layer packer.
package model
