// Package notes decodes the booking context that checkout stores in the
// payment gateway's free-text notes. The gateway only carries flat string
// values, so nested data arrives in two ad-hoc encodings:
//
//	map[name:Jane email:jane@x.com]            (single map)
//	[map[name:Jane age:30] map[name:Raj age:4]] (array of maps)
//
// Malformed input never fails; it decodes to an empty result.
package notes

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"tourbook/models"

	"go.uber.org/zap"
)

const (
	mapPrefix      = "map["
	mapSuffix      = "]"
	arraySeparator = " map["
)

var tokenPattern = regexp.MustCompile(`\w+:\S+`)

// ParseMap decodes a single map string, converting numeric values to float64.
func ParseMap(s string) map[string]any {
	raw := parseRawMap(s)
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = coerce(v)
	}
	return out
}

// parseRawMap decodes a single map string keeping every value as written.
// Values may not contain a colon; each token is split on its first colon.
func parseRawMap(s string) map[string]string {
	out := make(map[string]string)
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, mapPrefix) || !strings.HasSuffix(trimmed, mapSuffix) {
		if trimmed != "" {
			zap.L().Warn("notes: malformed map string", zap.String("value", s))
		}
		return out
	}

	inner := trimmed[len(mapPrefix) : len(trimmed)-len(mapSuffix)]
	for _, token := range tokenPattern.FindAllString(inner, -1) {
		key, value, _ := strings.Cut(token, ":")
		out[key] = value
	}
	return out
}

func coerce(v string) any {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	return f
}

// ParseTravelers decodes an array of maps into normalized travelers.
func ParseTravelers(s string) []models.Traveler {
	var travelers []models.Traveler
	for _, fields := range parseRawArray(s) {
		travelers = append(travelers, travelerFromFields(fields))
	}
	return travelers
}

func parseRawArray(s string) []map[string]string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if !strings.HasPrefix(trimmed, mapPrefix) {
		if trimmed != "" {
			zap.L().Warn("notes: malformed map array string", zap.String("value", s))
		}
		return nil
	}

	var out []map[string]string
	for i, fragment := range strings.Split(trimmed, arraySeparator) {
		if i > 0 {
			fragment = mapPrefix + fragment
		}
		fields := parseRawMap(fragment)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields)
	}
	return out
}

func travelerFromFields(fields map[string]string) models.Traveler {
	return models.Traveler{
		Name:     fields["name"],
		Age:      normalizeAge(fields["age"]),
		Gender:   NormalizeGender(fields["gender"]),
		IDType:   fields["idType"],
		IDNumber: fields["idNumber"],
	}
}

// normalizeAge truncates to a whole number; unparsable or negative ages become 0.
func normalizeAge(v string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(math.Trunc(f))
}

// NormalizeGender maps free-form gender input onto male, female, other or unknown.
func NormalizeGender(v string) string {
	g := strings.ToLower(strings.TrimSpace(v))
	switch g {
	case "m":
		return models.GenderMale
	case "f":
		return models.GenderFemale
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return g
	default:
		return models.GenderUnknown
	}
}
