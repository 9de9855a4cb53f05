package satellite

import (
	"errors"
	"fmt"
)

// ErrAuth marks credential or token-exchange failures. Fatal for the
// request; surfaced to the caller.
var ErrAuth = errors.New("satellite auth failed")

// NoDataError means a statistics window had no usable pixels (typically full
// cloud cover). Not retryable and distinct from transport failures: the
// imagery simply is not there for this location and time.
type NoDataError struct {
	Window        string  // "current" or "historical"
	CloudCoverage float64 // percent, 0 when unknown
}

func (e *NoDataError) Error() string {
	if e.CloudCoverage > 0 {
		return fmt.Sprintf("no usable satellite data for %s window (%.1f%% cloud/no-data)", e.Window, e.CloudCoverage)
	}
	return fmt.Sprintf("no usable satellite data for %s window", e.Window)
}

// IsNoData reports whether err is a NoDataError.
func IsNoData(err error) bool {
	var nde *NoDataError
	return errors.As(err, &nde)
}
