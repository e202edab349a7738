// Package sizing provides safe size conversions to prevent overflow.
package sizing

import "math"

// ToInt converts an int64 to int, returning overflowErr if it doesn't fit.
func ToInt(size int64, overflowErr error) (int, error) {
	if size < 0 || size > int64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(size), nil
}
