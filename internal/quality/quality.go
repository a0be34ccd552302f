// Package quality assigns maintainer tiers and quality badges to hub
// plugin variants.
package quality

// Maintainer tiers.
const (
	Official  = "official"
	Partner   = "partner"
	Community = "community"
)

// Quality levels.
const (
	Gold    = "gold"
	Silver  = "silver"
	Bronze  = "bronze"
	Unknown = "unknown"
)

var (
	officialVariants = []string{"meltano", "meltanolabs"}
	partnerVariants  = []string{"matatika", "autoidm", "hotglue", "hotgluexyz"}
)

// Maintainer returns the maintainer tier of a variant.
func Maintainer(variant string) string {
	switch {
	case contains(officialVariants, variant):
		return Official
	case contains(partnerVariants, variant):
		return Partner
	}
	return Community
}

// Quality grades a variant from its maintainer, whether it is built on the
// SDK, how many projects use it and how responsive its maintainers are
// ("low", "medium" or "high").
func Quality(variant string, sdkBased bool, usageCount int, responsiveness string) string {
	responsive := responsiveness == "medium" || responsiveness == "high"

	switch Maintainer(variant) {
	case Official:
		return Gold
	case Partner:
		switch {
		case sdkBased:
			return Gold
		case usageCount >= 1 && responsive:
			return Silver
		}
		return Bronze
	default:
		switch {
		case sdkBased:
			return Silver
		case usageCount >= 1 && responsive:
			return Silver
		case usageCount >= 1:
			return Bronze
		}
	}
	return Unknown
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
