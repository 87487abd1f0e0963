// Package theme owns the visual preference state and renders it onto a document.
package theme

import (
	"strings"

	"github.com/bnema/sitetheme/internal/domain/entity"
)

// Palette holds semantic surface colours for one effective mode.
// The accent is not part of it: it comes from the user's colour theme.
type Palette struct {
	Background     string // Main background color
	Surface        string // Elevated surfaces (cards, popups)
	SurfaceVariant string // Secondary surfaces
	Text           string // Primary text color
	Muted          string // Secondary/disabled text
	Border         string // Border and divider lines
}

// DefaultDarkPalette returns the dark surfaces.
func DefaultDarkPalette() Palette {
	return Palette{
		Background:     "#0a0a0b",
		Surface:        "#1a1a1b",
		SurfaceVariant: "#2d2d2d",
		Text:           "#f5f5f5",
		Muted:          "#909090",
		Border:         "#333333",
	}
}

// DefaultLightPalette returns the light surfaces.
func DefaultLightPalette() Palette {
	return Palette{
		Background:     "#fafafa",
		Surface:        "#ffffff",
		SurfaceVariant: "#f0f0f0",
		Text:           "#1a1a1a",
		Muted:          "#666666",
		Border:         "#dddddd",
	}
}

// PaletteFor returns the default palette of an effective mode.
func PaletteFor(effective entity.Mode) Palette {
	if effective == entity.ModeDark {
		return DefaultDarkPalette()
	}
	return DefaultLightPalette()
}

// WithContrast pushes text, muted text and borders towards the extreme
// opposite of the background, one third of the way per contrast level.
func (p Palette) WithContrast(level entity.ContrastLevel) Palette {
	t := float64(entity.ClampContrast(int(level))) / float64(entity.ContrastHigh)
	if t == 0 {
		return p
	}

	bg, ok := HexToRGB(p.Background)
	if !ok {
		return p
	}
	extreme := RGB{}
	if RelativeLuminance(bg) < 0.5 {
		extreme = RGB{255, 255, 255}
	}

	push := func(hex string) string {
		c, ok := HexToRGB(hex)
		if !ok {
			return hex
		}
		return RGBToHex(Mix(c, extreme, t))
	}
	p.Text = push(p.Text)
	p.Muted = push(p.Muted)
	p.Border = push(p.Border)
	return p
}

// Coalesce returns the first non-empty string.
func Coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ToCSSVars generates CSS custom property declarations.
func (p Palette) ToCSSVars() string {
	var sb strings.Builder
	sb.WriteString("  --bg: " + p.Background + ";\n")
	sb.WriteString("  --surface: " + p.Surface + ";\n")
	sb.WriteString("  --surface-variant: " + p.SurfaceVariant + ";\n")
	sb.WriteString("  --text: " + p.Text + ";\n")
	sb.WriteString("  --muted: " + p.Muted + ";\n")
	sb.WriteString("  --border: " + p.Border + ";\n")
	return sb.String()
}
