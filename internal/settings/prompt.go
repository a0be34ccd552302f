package settings

import "strings"

// PromptSource supplies operator input for settings the schema leaves
// underspecified. Every question carries a suggested answer that a
// non-interactive source may return as is.
type PromptSource interface {
	// Description asks for the description of the named setting.
	Description(name, suggested string) (string, error)
	// Kind asks for the kind of a setting whose schema has no usable type.
	Kind(name, suggested string) (string, error)
}

// Defaults is a PromptSource that always accepts the suggested answer.
type Defaults struct{}

// Description returns suggested.
func (Defaults) Description(_, suggested string) (string, error) { return suggested, nil }

// Kind returns suggested.
func (Defaults) Kind(_, suggested string) (string, error) { return suggested, nil }

const (
	startDateDescription = "Determines how much historical data will be extracted. " +
		"Please be aware that the larger the time period and amount of data, " +
		"the longer the initial extraction can be expected to take."
	endDateDescription = "Date up to when historical data will be extracted."
	tagDescription     = "Airbyte image tag"
)

// SuggestedDescription returns the canned description offered to operators
// for well-known settings, or "" when there is none.
func SuggestedDescription(name string) string {
	switch strings.ToLower(name) {
	case "start_date":
		return startDateDescription
	case "end_date":
		return endDateDescription
	}
	return ""
}
