package entity

import "strings"

// Record is the flat string mapping written to the key/value store.
type Record map[string]string

// EncodeRecord serialises every persisted field of p.
func EncodeRecord(p PreferenceSet) Record {
	r := make(Record, len(persistedFields))
	for _, f := range persistedFields {
		r[f.StorageKey()] = p.Value(f)
	}
	return r
}

// DecodeRecord rebuilds a PreferenceSet from stored values. get reports whether
// a key is present. Absent keys use defaults; osReducedMotion is the default for
// reducedMotion. explicitMotion reports whether reducedMotion was stored.
func DecodeRecord(get func(key string) (string, bool), osReducedMotion bool) (p PreferenceSet, explicitMotion bool) {
	p = Defaults(osReducedMotion)
	if v, ok := get(KeyThemeMode); ok {
		p.Mode, _ = ParseMode(v)
	}
	if v, ok := get(KeyColorTheme); ok {
		p.ColorAccent, _ = NormalizeAccent(v)
	}
	if v, ok := get(KeyContrastLevel); ok {
		p.ContrastLevel, _ = ParseContrast(v)
	}
	if v, ok := get(KeyFontSizePercent); ok {
		p.FontScalePercent, _ = ParseFontScale(v)
	}
	if v, ok := get(KeyReducedMotion); ok {
		p.ReducedMotion = parseBool(v)
		explicitMotion = true
	}
	return p, explicitMotion
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
