package entity

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Mode is the user's colour mode choice.
// Auto follows the local clock, System follows the OS dark-mode signal.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeAuto   Mode = "auto"
	ModeSystem Mode = "system"
)

// DefaultMode is used on first run and for unrecognised stored values.
const DefaultMode = ModeSystem

var modes = []Mode{ModeLight, ModeDark, ModeAuto, ModeSystem}

// Modes returns the selectable modes in display order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeLight, ModeDark, ModeAuto, ModeSystem:
		return true
	}
	return false
}

// Label returns a capitalised display name.
func (m Mode) Label() string {
	switch m {
	case ModeLight:
		return "Light"
	case ModeDark:
		return "Dark"
	case ModeAuto:
		return "Auto"
	case ModeSystem:
		return "System"
	}
	return string(m)
}

// ParseMode parses a stored or user supplied mode. Unknown values yield DefaultMode
// and false.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m.Valid() {
		return m, true
	}
	return DefaultMode, false
}

// Effective resolves m to ModeLight or ModeDark.
func (m Mode) Effective(isDayTime, prefersDark bool) Mode {
	switch m {
	case ModeLight:
		return ModeLight
	case ModeDark:
		return ModeDark
	case ModeAuto:
		if isDayTime {
			return ModeLight
		}
		return ModeDark
	default:
		if prefersDark {
			return ModeDark
		}
		return ModeLight
	}
}

// ContrastLevel ranges from ContrastNormal to ContrastHigh.
type ContrastLevel int

const (
	ContrastNormal ContrastLevel = iota
	ContrastMild
	ContrastMedium
	ContrastHigh
)

var contrastNames = [...]string{"normal", "mild", "medium", "high"}

// ClampContrast pins level into [ContrastNormal, ContrastHigh].
func ClampContrast(level int) ContrastLevel {
	if level < int(ContrastNormal) {
		return ContrastNormal
	}
	if level > int(ContrastHigh) {
		return ContrastHigh
	}
	return ContrastLevel(level)
}

// ParseContrast parses a stored contrast level. Non-numeric input resets to
// ContrastNormal and reports false; numbers are clamped.
func ParseContrast(s string) (ContrastLevel, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ContrastNormal, false
	}
	c := ClampContrast(n)
	return c, int(c) == n
}

// ContrastByName returns the level called name (normal, mild, medium, high).
func ContrastByName(name string) (ContrastLevel, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range contrastNames {
		if n == name {
			return ContrastLevel(i), true
		}
	}
	return ContrastNormal, false
}

// Name returns normal, mild, medium or high.
func (c ContrastLevel) Name() string {
	return contrastNames[ClampContrast(int(c))]
}

func (c ContrastLevel) String() string {
	return strconv.Itoa(int(c))
}

// Font scale bounds, in percent of the base font size.
const (
	FontScaleMin     = 80
	FontScaleMax     = 150
	FontScaleDefault = 100
	FontScaleStep    = 10
)

// ClampFontScale pins percent into [FontScaleMin, FontScaleMax].
func ClampFontScale(percent int) int {
	if percent < FontScaleMin {
		return FontScaleMin
	}
	if percent > FontScaleMax {
		return FontScaleMax
	}
	return percent
}

// ParseFontScale accepts "120" or "120%". Non-numeric input and NaN fall
// back to FontScaleDefault and report false; numbers, infinities included,
// are clamped.
func ParseFontScale(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if n, err := strconv.Atoi(s); err == nil {
		p := ClampFontScale(n)
		return p, p == n
	}

	// Floats and integers beyond the int range are clamped before converting.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return FontScaleDefault, false
	}
	if math.IsNaN(f) {
		return FontScaleDefault, false
	}
	f = math.Round(f)
	switch {
	case f < FontScaleMin:
		return FontScaleMin, false
	case f > FontScaleMax:
		return FontScaleMax, false
	}
	return int(f), true
}

// PreferenceSet is the complete visual preference state.
type PreferenceSet struct {
	Mode             Mode
	ColorAccent      string
	ContrastLevel    ContrastLevel
	FontScalePercent int
	ReducedMotion    bool
}

// Defaults returns the documented defaults. reducedMotion is the OS preference
// at the time of the call.
func Defaults(reducedMotion bool) PreferenceSet {
	return PreferenceSet{
		Mode:             DefaultMode,
		ColorAccent:      DefaultAccent,
		ContrastLevel:    ContrastNormal,
		FontScalePercent: FontScaleDefault,
		ReducedMotion:    reducedMotion,
	}
}

// Normalize validates every field, clamping or falling back where needed, and
// returns the corrected set together with the fields that had to be corrected.
func (p PreferenceSet) Normalize() (PreferenceSet, []Field) {
	var fixed []Field
	if !p.Mode.Valid() {
		p.Mode = DefaultMode
		fixed = append(fixed, FieldMode)
	}
	if key, ok := NormalizeAccent(p.ColorAccent); !ok || key != p.ColorAccent {
		p.ColorAccent = key
		fixed = append(fixed, FieldColorTheme)
	}
	if c := ClampContrast(int(p.ContrastLevel)); c != p.ContrastLevel {
		p.ContrastLevel = c
		fixed = append(fixed, FieldContrastLevel)
	}
	if f := ClampFontScale(p.FontScalePercent); f != p.FontScalePercent {
		p.FontScalePercent = f
		fixed = append(fixed, FieldFontSize)
	}
	return p, fixed
}

// Value returns the persisted string form of field f.
func (p PreferenceSet) Value(f Field) string {
	switch f {
	case FieldMode:
		return string(p.Mode)
	case FieldColorTheme:
		return p.ColorAccent
	case FieldContrastLevel:
		return p.ContrastLevel.String()
	case FieldFontSize:
		return strconv.Itoa(p.FontScalePercent)
	case FieldReducedMotion:
		return strconv.FormatBool(p.ReducedMotion)
	}
	return ""
}
