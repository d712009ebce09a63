// Package status declares error constants returned by the mapping package.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// ErrTreeRead indicates a failure to read the content tree. No partial mapping is ever returned.
	ErrTreeRead = errors.New("mapping aborted on content tree error")
)
