package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrParseFailed = errors.New("parse_failed")

// decodeJSON unmarshals a model response into v. Responses sometimes
// arrive wrapped in a markdown code fence even when a JSON MIME type was
// requested, so fences are stripped first.
func decodeJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return nil
}

// parseID accepts both "7" and "id=7" forms.
func parseID(s string) (uint64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "id="))
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
