package catalog

import (
	"github.com/hubkit/hubctl/internal/settings"
)

// SDKKeyword marks records of plugins built on the Singer SDK, which can
// describe themselves with --about.
const SDKKeyword = "meltano_sdk"

// Record is a plugin definition file. Keys the tool does not manage are
// kept in Extra and written back untouched.
type Record struct {
	Name                    string             `yaml:"name,omitempty"`
	Namespace               string             `yaml:"namespace,omitempty"`
	Variant                 string             `yaml:"variant,omitempty"`
	Label                   string             `yaml:"label,omitempty"`
	Description             string             `yaml:"description,omitempty"`
	Repo                    string             `yaml:"repo,omitempty"`
	PipURL                  string             `yaml:"pip_url,omitempty"`
	Executable              string             `yaml:"executable,omitempty"`
	Capabilities            []string           `yaml:"capabilities,omitempty"`
	Keywords                []string           `yaml:"keywords,omitempty"`
	MaintenanceStatus       string             `yaml:"maintenance_status,omitempty"`
	Settings                []settings.Setting `yaml:"settings,omitempty"`
	SettingsGroupValidation [][]string         `yaml:"settings_group_validation,omitempty"`
	Extra                   map[string]any     `yaml:",inline"`
}

// IsSDKBased reports whether the record carries the SDK keyword.
func (r *Record) IsSDKBased() bool {
	for _, k := range r.Keywords {
		if k == SDKKeyword {
			return true
		}
	}
	return false
}

// MarshalYAML writes keys in alphabetical order.
func (r Record) MarshalYAML() (any, error) {
	out := make(map[string]any, len(r.Extra)+13)
	for k, v := range r.Extra {
		out[k] = v
	}

	putString := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	putString("name", r.Name)
	putString("namespace", r.Namespace)
	putString("variant", r.Variant)
	putString("label", r.Label)
	putString("description", r.Description)
	putString("repo", r.Repo)
	putString("pip_url", r.PipURL)
	putString("executable", r.Executable)
	putString("maintenance_status", r.MaintenanceStatus)

	if len(r.Capabilities) > 0 {
		out["capabilities"] = r.Capabilities
	}
	if len(r.Keywords) > 0 {
		out["keywords"] = r.Keywords
	}
	if len(r.Settings) > 0 {
		out["settings"] = r.Settings
	}
	if len(r.SettingsGroupValidation) > 0 {
		out["settings_group_validation"] = r.SettingsGroupValidation
	}
	return out, nil
}

// Apply folds a flatten result into an existing record: settings are
// merged, capabilities and validation groups replaced, and every other
// key left as it was. A nil record starts empty.
func Apply(existing *Record, result *settings.Result) *Record {
	var updated Record
	if existing != nil {
		updated = *existing
	}

	updated.Settings = settings.Merge(updated.Settings, result.Settings)
	updated.Capabilities = result.Capabilities
	updated.SettingsGroupValidation = nonEmptyGroups(result.ValidationGroups)
	return &updated
}

func nonEmptyGroups(groups [][]string) [][]string {
	var out [][]string
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}
