package entity

// Field identifies one preference in change events and storage.
type Field string

const (
	FieldMode          Field = "mode"
	FieldColorTheme    Field = "colorTheme"
	FieldContrastLevel Field = "contrastLevel"
	FieldFontSize      Field = "fontSizePercent"
	FieldReducedMotion Field = "reducedMotion"
	// FieldEffectiveMode is emitted when the rendered light/dark mode flips while
	// the chosen Mode stays the same (Auto crossing day/night, System OS toggle).
	// It is never persisted.
	FieldEffectiveMode Field = "effectiveMode"
)

// Storage keys of the persisted record.
const (
	KeyThemeMode       = "themeMode"
	KeyColorTheme      = "colorTheme"
	KeyContrastLevel   = "contrastLevel"
	KeyFontSizePercent = "fontSizePercent"
	KeyReducedMotion   = "reducedMotion"
)

var persistedFields = []Field{
	FieldMode,
	FieldColorTheme,
	FieldContrastLevel,
	FieldFontSize,
	FieldReducedMotion,
}

// PersistedFields returns the five user preferences in canonical order.
func PersistedFields() []Field {
	out := make([]Field, len(persistedFields))
	copy(out, persistedFields)
	return out
}

// StorageKey returns the key f is persisted under, or "" for derived fields.
func (f Field) StorageKey() string {
	switch f {
	case FieldMode:
		return KeyThemeMode
	case FieldColorTheme:
		return KeyColorTheme
	case FieldContrastLevel:
		return KeyContrastLevel
	case FieldFontSize:
		return KeyFontSizePercent
	case FieldReducedMotion:
		return KeyReducedMotion
	}
	return ""
}

// FieldForKey maps a storage key back to its field.
func FieldForKey(key string) (Field, bool) {
	for _, f := range persistedFields {
		if f.StorageKey() == key {
			return f, true
		}
	}
	return "", false
}

// StorageKeys returns every recognised storage key.
func StorageKeys() []string {
	keys := make([]string, len(persistedFields))
	for i, f := range persistedFields {
		keys[i] = f.StorageKey()
	}
	return keys
}
