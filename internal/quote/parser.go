package quote

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```json\\s*|\\s*```")

// ErrNoQuote reports that the second segment held nothing decodable. Callers
// log it and move on; the reply text is always valid independently.
var ErrNoQuote = errors.New("no quote payload in output")

// Parse splits a DEVIS generation output into reply text and an optional
// structured quote. The first delimiter segment is the reply; within the
// rest, the substring from the first '{' to the last '}' is unfenced and
// decoded. Reply text is usable even when the returned error is non-nil.
func Parse(output string) (string, *Quote, error) {
	parts := strings.SplitN(output, Delimiter, 2)
	reply := strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return reply, nil, ErrNoQuote
	}

	raw := extractJSON(parts[1])
	if raw == "" {
		return reply, nil, ErrNoQuote
	}

	var q Quote
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return reply, nil, err
	}
	return reply, &q, nil
}

// extractJSON returns the first-'{' to last-'}' slice with markdown code
// fences stripped, or "" when no brace pair exists.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(fenceRe.ReplaceAllString(s[start:end+1], ""))
}
