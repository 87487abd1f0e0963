package entity

// Update carries the fields to change; nil fields are left untouched.
// Values are raw user input and get validated by the receiver.
type Update struct {
	Mode             *Mode
	ColorAccent      *string
	ContrastLevel    *int
	FontScalePercent *int
	ReducedMotion    *bool
}

// FullUpdate returns an Update that sets every field of p.
func FullUpdate(p PreferenceSet) Update {
	mode := p.Mode
	accent := p.ColorAccent
	contrast := int(p.ContrastLevel)
	font := p.FontScalePercent
	motion := p.ReducedMotion
	return Update{
		Mode:             &mode,
		ColorAccent:      &accent,
		ContrastLevel:    &contrast,
		FontScalePercent: &font,
		ReducedMotion:    &motion,
	}
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.Mode == nil && u.ColorAccent == nil && u.ContrastLevel == nil &&
		u.FontScalePercent == nil && u.ReducedMotion == nil
}

// ParseUpdate builds a single-field Update from a field name (or storage key)
// and a raw string value, as typed on the command line.
func ParseUpdate(field, value string) (Update, bool) {
	f := Field(field)
	if byKey, ok := FieldForKey(field); ok {
		f = byKey
	}
	switch f {
	case FieldMode:
		m, _ := ParseMode(value)
		return Update{Mode: &m}, true
	case FieldColorTheme:
		return Update{ColorAccent: &value}, true
	case FieldContrastLevel:
		c, ok := ContrastByName(value)
		if !ok {
			c, _ = ParseContrast(value)
		}
		n := int(c)
		return Update{ContrastLevel: &n}, true
	case FieldFontSize:
		p, _ := ParseFontScale(value)
		return Update{FontScalePercent: &p}, true
	case FieldReducedMotion:
		b := parseBool(value)
		return Update{ReducedMotion: &b}, true
	}
	return Update{}, false
}
