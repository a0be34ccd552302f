package settings

import (
	"fmt"

	"go.uber.org/zap"
)

const fieldSeparator = "."

// field is a schema leaf collected during traversal, before any kind or
// description policy is applied.
type field struct {
	name         string
	description  any
	defaultValue any
	typ          any
	title        string
	constValue   any
	items        any
	enum         []any
	format       string

	// required is nil until a parent object decides it. The deepest
	// decision wins.
	required *bool
}

// Result is the output of flattening one about payload.
type Result struct {
	Settings         []Setting
	ValidationGroups [][]string
	Capabilities     []string
}

// Flattener converts nested settings schemas into flat setting lists.
type Flattener struct {
	prompt  PromptSource
	logger  *zap.Logger
	enforce bool
}

// FlattenOption configures a Flattener.
type FlattenOption func(*Flattener)

// WithPromptSource sets where operator input comes from when descriptions
// are enforced.
func WithPromptSource(p PromptSource) FlattenOption {
	return func(f *Flattener) {
		if p != nil {
			f.prompt = p
		}
	}
}

// WithLogger sets the logger used for schema diagnostics.
func WithLogger(l *zap.Logger) FlattenOption {
	return func(f *Flattener) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithEnforcedDescriptions makes the flattener ask the prompt source for
// every missing description and kind instead of defaulting silently.
func WithEnforcedDescriptions(enforce bool) FlattenOption {
	return func(f *Flattener) {
		f.enforce = enforce
	}
}

// NewFlattener creates a Flattener. Without options it never prompts and
// logs nothing.
func NewFlattener(opts ...FlattenOption) *Flattener {
	f := &Flattener{
		prompt: Defaults{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Flatten walks the settings schema of an about payload and returns the
// deduplicated settings, the validation groups and the capabilities.
func (f *Flattener) Flatten(about *About) (*Result, error) {
	if about == nil {
		about = &About{}
	}

	root := about.Settings
	rootRequired := root.Required()

	fields := traverse(root)
	flat := make([]Setting, 0, len(fields))
	for _, fl := range fields {
		s, err := f.setting(fl, rootRequired)
		if err != nil {
			return nil, err
		}
		flat = append(flat, s)
	}

	return &Result{
		Settings:         dedup(flat),
		ValidationGroups: [][]string{requiredGroup(flat, rootRequired)},
		Capabilities:     about.Capabilities,
	}, nil
}

func (f *Flattener) setting(fl field, rootRequired []string) (Setting, error) {
	description, err := f.description(fl)
	if err != nil {
		return Setting{}, err
	}

	base, err := f.kind(fl)
	if err != nil {
		return Setting{}, err
	}
	kind, options := Classify(base, fl.name, fl.format, fl.enum)

	required := contains(rootRequired, fl.name)
	if fl.required != nil {
		required = *fl.required
	}

	s := Setting{
		Name:        fl.name,
		Label:       Label(fl.name),
		Description: description,
		Kind:        kind,
		Options:     options,
		Required:    required,
	}
	// Dates are always resolved at run time, never from a literal default.
	if truthy(fl.defaultValue) && kind != KindDate {
		s.Value = fl.defaultValue
	}
	return s, nil
}

func (f *Flattener) description(fl field) (string, error) {
	if desc := text(fl.description); desc != "" {
		return desc, nil
	}

	if f.enforce {
		desc, err := f.prompt.Description(fl.name, SuggestedDescription(fl.name))
		if err != nil {
			return "", fmt.Errorf("failed to read description for %s: %w", fl.name, err)
		}
		return desc, nil
	}

	if fl.name == "tag" {
		return tagDescription, nil
	}
	return "", nil
}

func (f *Flattener) kind(fl field) (string, error) {
	if kind := baseKind(fl.typ); kind != "" {
		return kind, nil
	}

	if f.enforce {
		kind, err := f.prompt.Kind(fl.name, KindString)
		if err != nil {
			return "", fmt.Errorf("failed to read kind for %s: %w", fl.name, err)
		}
		if kind != "" {
			return kind, nil
		}
		return KindString, nil
	}

	f.logger.Warn("No type found, defaulting to string", zap.String("setting", fl.name))
	return KindString, nil
}

// traverse collects the leaves of schema. Object properties with nested
// properties or variants are flattened recursively and renamed
// "<parent>.<child>"; every variant of oneOf is flattened and appended.
func traverse(schema Schema) []field {
	var fields []field

	for _, prop := range schema.Properties() {
		value := prop.Schema
		if !value.isObject() || !value.hasChildren() {
			fields = append(fields, leaf(prop.Name, value))
			continue
		}

		parentRequired := value.Required()
		for _, sub := range traverse(value) {
			child := sub
			child.name = prop.Name + fieldSeparator + sub.name
			if sub.required == nil {
				required := contains(parentRequired, sub.name)
				child.required = &required
			}
			fields = append(fields, child)
		}
	}

	for _, variant := range schema.OneOf() {
		for _, fl := range traverse(variant) {
			// A const marks which variant the field belongs to.
			if fl.constValue != nil {
				if truthy(fl.constValue) {
					fl.description = text(fl.constValue)
				} else {
					fl.description = variant.String("title")
				}
			}
			fields = append(fields, fl)
		}
	}

	return fields
}

func leaf(name string, s Schema) field {
	return field{
		name:         name,
		description:  s["description"],
		defaultValue: s["default"],
		typ:          s.Type(),
		title:        s.String("title"),
		constValue:   s["const"],
		items:        s["items"],
		enum:         s.Enum(),
		format:       s.String("format"),
	}
}

// dedup collapses settings sharing a name into the first occurrence,
// joining their descriptions.
func dedup(settings []Setting) []Setting {
	index := make(map[string]int, len(settings))
	out := make([]Setting, 0, len(settings))

	for _, s := range settings {
		if i, ok := index[s.Name]; ok {
			out[i].Description = out[i].Description + ", " + s.Description
			continue
		}
		index[s.Name] = len(out)
		out = append(out, s)
	}
	return out
}

// requiredGroup lists every required setting followed by any root-level
// required names that did not produce a setting.
func requiredGroup(settings []Setting, rootRequired []string) []string {
	group := make([]string, 0)
	seen := make(map[string]bool)

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			group = append(group, name)
		}
	}

	for _, s := range settings {
		if s.Required {
			add(s.Name)
		}
	}
	for _, name := range rootRequired {
		add(name)
	}
	return group
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
