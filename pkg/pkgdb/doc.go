// Package pkgdb reads installed packages from a package database.
//
// Backends:
//   - rpm: queries an rpm database with the rpm command line
//   - json: reads a JSON dump of packages, e.g. produced by a former run
//
// A backend that has no changelog returns an error matching status.ErrUnsupported from Changes.
package pkgdb
