package settings

// Merge reconciles freshly introspected settings with the ones already in
// the catalog. The result follows incoming's order and contains only
// incoming's names. For names present on both sides the plugin owns the
// label, description, kind, options and required flag, so those always come
// from incoming. Value, placeholder, documentation and custom keys keep the
// cataloged value unless incoming sets them, so hand-maintained fields
// survive refreshes.
func Merge(existing, incoming []Setting) []Setting {
	byName := make(map[string]Setting, len(existing))
	for _, s := range existing {
		byName[s.Name] = s
	}

	merged := make([]Setting, 0, len(incoming))
	for _, s := range incoming {
		prev, ok := byName[s.Name]
		if !ok {
			merged = append(merged, s.clone())
			continue
		}
		merged = append(merged, overlay(prev, s))
	}
	return merged
}

// overlay lays next over prev.
func overlay(prev, next Setting) Setting {
	out := prev.clone()
	n := next.clone()

	out.Label = n.Label
	out.Description = n.Description
	out.Kind = n.Kind
	out.Options = n.Options
	out.Required = n.Required

	if n.Value != nil {
		out.Value = n.Value
	}
	if n.Placeholder != "" {
		out.Placeholder = n.Placeholder
	}
	if n.Documentation != "" {
		out.Documentation = n.Documentation
	}
	if len(n.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]any, len(n.Extra))
		}
		for k, v := range n.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
