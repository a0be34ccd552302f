package quality

import "testing"

func TestMaintainer(t *testing.T) {
	tests := map[string]string{
		"meltanolabs": Official,
		"meltano":     Official,
		"hotgluexyz":  Partner,
		"matatika":    Partner,
		"singer-io":   Community,
		"":            Community,
	}

	for variant, want := range tests {
		if got := Maintainer(variant); got != want {
			t.Errorf("Maintainer(%q) = %q, want %q", variant, got, want)
		}
	}
}

func TestQuality(t *testing.T) {
	tests := []struct {
		name           string
		variant        string
		sdkBased       bool
		usageCount     int
		responsiveness string
		want           string
	}{
		{"official is always gold", "meltanolabs", false, 0, "", Gold},
		{"partner sdk", "hotglue", true, 0, "", Gold},
		{"partner used and responsive", "autoidm", false, 3, "high", Silver},
		{"partner used but slow", "autoidm", false, 3, "low", Bronze},
		{"partner unused", "matatika", false, 0, "medium", Bronze},
		{"community sdk", "someone", true, 0, "", Silver},
		{"community used and responsive", "someone", false, 1, "medium", Silver},
		{"community used", "someone", false, 1, "low", Bronze},
		{"community unused", "someone", false, 0, "high", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quality(tt.variant, tt.sdkBased, tt.usageCount, tt.responsiveness); got != tt.want {
				t.Errorf("Quality() = %q, want %q", got, tt.want)
			}
		})
	}
}
