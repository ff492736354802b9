package scanner

import (
	"errors"
	"fmt"
)

// ErrNoBuildConfigs reports a build root without a single
// build.<arch>.<platform>/<target> directory.
var ErrNoBuildConfigs = errors.New("no build configurations found")

// LookupError reports an object file with no counterpart in the source tree,
// usually a stale build directory.
type LookupError struct {
	Object string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no source file found for object %s", e.Object)
}
