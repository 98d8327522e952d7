package subscription

// Result wraps a data-access value with its provenance. A degraded result
// carries synthetic fallback data served because the real entitlement source
// was unauthorized or unreachable; Cause records which. Hard failures are
// returned as a separate error, never inside a Result, so callers branch
// explicitly instead of inspecting error shapes.
type Result[T any] struct {
	Value    T
	Degraded bool
	Cause    error // set only when Degraded
}

// Ok wraps a genuine remote value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// DegradedResult wraps a synthesized fallback value with the error that
// triggered the synthesis.
func DegradedResult[T any](v T, cause error) Result[T] {
	return Result[T]{Value: v, Degraded: true, Cause: cause}
}
