package quizgen

import (
	"encoding/json"
	"regexp"
	"strings"

	"quizify/internal/domain"
)

var (
	fencedJSONRe = regexp.MustCompile("(?is)```json\\s*(\\{.*\\})\\s*```")
	thinkBlockRe = regexp.MustCompile(`(?is)<think>.*?</think>`)
)

// ExtractJSON pulls the JSON payload out of a raw model response. Models
// do not reliably honor the "JSON only" instruction, so parsing falls
// through three stages: the whole text as-is, the contents of a ```json
// fence, and finally the span between the first '{' and the last '}'.
// Reasoning traces wrapped in <think> tags are stripped up front.
func ExtractJSON(raw string) (map[string]json.RawMessage, error) {
	text := strings.TrimSpace(thinkBlockRe.ReplaceAllString(raw, ""))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &obj); err != nil {
			return nil, domain.NewExtractionError(raw, err)
		}
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, domain.NewExtractionError(raw, nil)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, domain.NewExtractionError(raw, err)
	}
	return obj, nil
}
