package viewport

// EaseOutCubic maps linear progress in [0, 1] to 1-(1-p)^3. Inputs outside
// the range are clamped.
func EaseOutCubic(p float64) float64 {
	p = min(max(p, 0), 1)
	q := 1 - p
	return 1 - q*q*q
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
