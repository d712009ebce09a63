package ledger

import (
	"time"

	"github.com/oneconcern/chunkmap/pkg/ledger/status"
)

// Resolution quantizes the build time used as change timestamp.
//
// Builds falling within the same period are considered the same build.
type Resolution string

// Supported changelog resolutions
const (
	ResolutionNone    Resolution = "none"
	ResolutionDaily   Resolution = "daily"
	ResolutionWeekly  Resolution = "weekly"
	ResolutionMonthly Resolution = "monthly"
)

// Resolutions lists all supported resolutions
func Resolutions() []string {
	return []string{string(ResolutionNone), string(ResolutionDaily), string(ResolutionWeekly), string(ResolutionMonthly)}
}

// ParseResolution validates a resolution name
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case ResolutionNone, ResolutionDaily, ResolutionWeekly, ResolutionMonthly:
		return r, nil
	default:
		return "", status.ErrUnknownResolution.WrapMessage("%q", s)
	}
}

// Quantize truncates a time to the start of its period (UTC) and returns it as unix seconds.
//
// Weeks start on monday.
func (r Resolution) Quantize(t time.Time) uint64 {
	t = t.UTC()
	y, m, d := t.Date()

	var q time.Time
	switch r {
	case ResolutionDaily:
		q = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case ResolutionWeekly:
		daysSinceMonday := (int(t.Weekday()) + 6) % 7
		q = time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, time.UTC)
	case ResolutionMonthly:
		q = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		q = t
	}

	return uint64(q.Unix())
}
