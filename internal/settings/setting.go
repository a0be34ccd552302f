package settings

// Setting kinds produced by the flattener. Any other raw schema type is
// passed through unchanged.
const (
	KindString   = "string"
	KindPassword = "password"
	KindDate     = "date_iso8601"
	KindOptions  = "options"
	KindInteger  = "integer"
	KindBoolean  = "boolean"
)

// Option is one selectable value of an options setting.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value any    `yaml:"value" json:"value"`
}

// Setting is a flattened, UI-ready description of one plugin setting.
type Setting struct {
	Name          string   `yaml:"name" json:"name"`
	Label         string   `yaml:"label,omitempty" json:"label,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	Kind          string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Options       []Option `yaml:"options,omitempty" json:"options,omitempty"`
	Value         any      `yaml:"value,omitempty" json:"value,omitempty"`
	Placeholder   string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Documentation string   `yaml:"documentation,omitempty" json:"documentation,omitempty"`

	// Required is derived from the schema on every run and feeds the
	// validation groups; it is not written to catalog records.
	Required bool `yaml:"-" json:"-"`

	// Extra holds keys operators add by hand (aliases, env, hidden, ...).
	Extra map[string]any `yaml:",inline" json:"-"`
}

// MarshalYAML renders the setting with alphabetically ordered keys, the
// layout hub definition files use.
func (s Setting) MarshalYAML() (any, error) {
	out := make(map[string]any, len(s.Extra)+8)
	for k, v := range s.Extra {
		out[k] = v
	}

	out["name"] = s.Name
	out["description"] = s.Description
	if s.Label != "" {
		out["label"] = s.Label
	}
	if s.Kind != "" {
		out["kind"] = s.Kind
	}
	if len(s.Options) > 0 {
		out["options"] = s.Options
	}
	if s.Value != nil {
		out["value"] = s.Value
	}
	if s.Placeholder != "" {
		out["placeholder"] = s.Placeholder
	}
	if s.Documentation != "" {
		out["documentation"] = s.Documentation
	}
	return out, nil
}

func (s Setting) clone() Setting {
	c := s
	if s.Options != nil {
		c.Options = append([]Option(nil), s.Options...)
	}
	if s.Extra != nil {
		c.Extra = make(map[string]any, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = v
		}
	}
	return c
}
