package notes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tourbook/models"
)

// EncodeMap renders values in the single-map notes format with keys sorted.
// Values must not contain whitespace or colons.
func EncodeMap(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+formatValue(values[k]))
	}
	return mapPrefix + strings.Join(parts, " ") + mapSuffix
}

// EncodeTravelers renders travelers in the array-of-maps notes format.
func EncodeTravelers(travelers []models.Traveler) string {
	parts := make([]string, 0, len(travelers))
	for _, t := range travelers {
		fields := map[string]any{
			"name":   t.Name,
			"age":    t.Age,
			"gender": t.Gender,
		}
		if t.IDType != "" {
			fields["idType"] = t.IDType
		}
		if t.IDNumber != "" {
			fields["idNumber"] = t.IDNumber
		}
		parts = append(parts, EncodeMap(fields))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
