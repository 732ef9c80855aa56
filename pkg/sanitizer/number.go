package sanitizer

// ClampInt bounds v to [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// FloorInt bounds v from below only.
func FloorInt(v, min int) int {
	if v < min {
		return min
	}
	return v
}
