package auth

// Authorize decides whether a role set satisfies an operation's
// requirement. An empty requirement means authentication alone is
// enough. Otherwise any single overlapping role grants access (OR
// semantics, not AND). Pure function, no I/O.
func Authorize(required, held []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range held {
			if want == have {
				return true
			}
		}
	}
	return false
}
