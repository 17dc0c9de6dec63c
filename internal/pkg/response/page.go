package response

// Map converts domain values into response DTOs. The result is never nil, so empty lists render as [].
func Map[S any, T any](src []S, fn func(S) T) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = fn(v)
	}
	return out
}
