package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// arrayPattern is greedy: it spans from the first '[' to the last ']'.
var arrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// ParseHandles extracts the handle tokens from raw model text. Tokens keep
// their order; duplicates and unknown handles are left for the matcher.
func ParseHandles(text string) ([]string, error) {
	match := arrayPattern.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("%w: no array found", ErrParse)
	}

	var decoded any
	if err := json.Unmarshal([]byte(match), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: decoded %T", ErrParse, decoded)
	}

	handles := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			handles = append(handles, v)
		case float64:
			handles = append(handles, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			handles = append(handles, strconv.FormatBool(v))
		}
		// null, objects and nested arrays cannot name a handle.
	}
	return handles, nil
}
