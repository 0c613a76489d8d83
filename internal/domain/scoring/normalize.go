package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeScores coerces a submitted score payload into the canonical
// criterion-id to number mapping. Historical clients send values either as
// JSON numbers or as numeric strings; anything else is rejected outright.
// Criteria absent from the payload are not an error here, they default to a
// zero contribution at compute time.
func NormalizeScores(raw map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for id, value := range raw {
		switch v := value.(type) {
		case float64:
			out[id] = v
		case int:
			out[id] = float64(v)
		case json.Number:
			parsed, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: criterion %q", ErrBadScore, id)
			}
			out[id] = parsed
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: criterion %q", ErrBadScore, id)
			}
			out[id] = parsed
		default:
			return nil, fmt.Errorf("%w: criterion %q", ErrBadScore, id)
		}
	}
	return out, nil
}
