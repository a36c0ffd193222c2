package generator

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?\\s*```")

// extractJSON pulls the JSON object out of a model reply. Replies wrapped in a
// code fence or surrounded by prose are common even when JSON is requested.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(text); len(m) > 1 {
		text = strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return text
	}

	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		switch c := text[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}
