package settings

import "strings"

// secretMarkers flag string settings that should be masked.
var secretMarkers = []string{"password", "id", "token", "key", "secret"}

// baseKind picks the first non-null member of a (possibly nullable) type.
// It returns "" when no kind can be determined.
func baseKind(typ any) string {
	switch t := typ.(type) {
	case string:
		return t
	case []string:
		for _, member := range t {
			if member != "null" {
				return member
			}
		}
	case []any:
		for _, member := range t {
			if s, ok := member.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

// Classify maps a base schema type and the field's metadata to a setting
// kind. For string fields the checks run in a fixed order: dates first,
// then secrets, then enumerations.
func Classify(kind, name, format string, enum []any) (string, []Option) {
	lowered := strings.ToLower(name)

	switch kind {
	case "string":
		if format == "date" || format == "date-time" || lowered == "start_date" || lowered == "end_date" {
			return KindDate, nil
		}
		if format == "airbyte_secret" || containsAny(lowered, secretMarkers) {
			return KindPassword, nil
		}
		if len(enum) > 0 {
			options := make([]Option, 0, len(enum))
			for _, v := range enum {
				options = append(options, Option{Label: optionLabel(v), Value: v})
			}
			return KindOptions, options
		}
		return KindString, nil
	case "number":
		return KindInteger, nil
	}

	// Arrays keep their raw kind; enumerated arrays are not offered as
	// options.
	return kind, nil
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
