package usage

import "errors"

// ErrLimitReached signals the user has no scans left in the current period.
var ErrLimitReached = errors.New("limit reached")
