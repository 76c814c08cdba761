package ai

// extract.go holds the permissive JSON extraction used on model replies.
// The completion API is instructed to answer with a JSON object, but the
// reply is free text and may wrap the object in prose or markdown fences.
// ExtractJSONObject scans for the first balanced top-level object instead
// of trusting the reply to be pure JSON; callers fall back to treating the
// whole reply as plain conversation when no object is found.

// ExtractJSONObject returns the first balanced top-level JSON object
// substring in s, or "" and false when none exists. Braces inside string
// literals (including escaped quotes) do not affect the balance count.
func ExtractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
