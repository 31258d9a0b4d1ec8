package llm

// ExtractObject finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings,
// so models that wrap their JSON in prose or markdown fences still parse.
func ExtractObject(s string) string {
	return extractDelimited(s, '{', '}')
}

// ExtractArray finds the outermost JSON array in a string.
func ExtractArray(s string) string {
	return extractDelimited(s, '[', ']')
}

func extractDelimited(s string, open, close rune) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
