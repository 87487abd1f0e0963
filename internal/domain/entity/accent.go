package entity

import "strings"

// DefaultAccent is the palette key used when nothing (or something unknown) is set.
const DefaultAccent = "blue"

// Accent is one entry of the fixed colour accent palette.
type Accent struct {
	Key  string // identifier persisted as colorTheme
	Name string // label shown in the settings panel
	Hex  string // primary colour, #rrggbb
}

// accentPalette determines display order in the settings panel.
var accentPalette = []Accent{
	{Key: "blue", Name: "Blue", Hex: "#2563eb"},
	{Key: "green", Name: "Green", Hex: "#059669"},
	{Key: "purple", Name: "Purple", Hex: "#7c3aed"},
	{Key: "orange", Name: "Orange", Hex: "#ea580c"},
	{Key: "red", Name: "Red", Hex: "#dc2626"},
	{Key: "teal", Name: "Teal", Hex: "#0d9488"},
}

// Accents returns the palette in display order.
func Accents() []Accent {
	out := make([]Accent, len(accentPalette))
	copy(out, accentPalette)
	return out
}

// LookupAccent returns the palette entry for key.
func LookupAccent(key string) (Accent, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, a := range accentPalette {
		if a.Key == key {
			return a, true
		}
	}
	return Accent{}, false
}

// NormalizeAccent returns key when it names a palette entry, DefaultAccent otherwise.
// The boolean reports whether key was accepted as-is.
func NormalizeAccent(key string) (string, bool) {
	if a, ok := LookupAccent(key); ok {
		return a.Key, true
	}
	return DefaultAccent, false
}

// AccentIndex returns the display position of key, or 0 for unknown keys.
func AccentIndex(key string) int {
	for i, a := range accentPalette {
		if a.Key == key {
			return i
		}
	}
	return 0
}
