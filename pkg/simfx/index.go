package simfx

import (
	"fmt"
	"math"
)

// toNative converts a 0-based host index to the engine's 1-based index.
func toNative(i int) (int32, error) {
	if i < 0 || i >= math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	return int32(i + 1), nil
}

// toInt32 narrows a host integer to the engine's int32.
func toInt32(n int) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrValueRange, n)
	}
	return int32(n), nil
}

// toHost converts an engine index to a 0-based host index.
func toHost(n int32) int {
	return int(n) - 1
}
