package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in     string
		want   Mode
		wantOk bool
	}{
		{"light", ModeLight, true},
		{"DARK", ModeDark, true},
		{" auto ", ModeAuto, true},
		{"system", ModeSystem, true},
		{"sepia", DefaultMode, false},
		{"", DefaultMode, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestMode_Effective(t *testing.T) {
	tests := []struct {
		name        string
		mode        Mode
		isDay       bool
		prefersDark bool
		want        Mode
	}{
		{"light ignores signals", ModeLight, false, true, ModeLight},
		{"dark ignores signals", ModeDark, true, false, ModeDark},
		{"auto during day", ModeAuto, true, true, ModeLight},
		{"auto at night", ModeAuto, false, false, ModeDark},
		{"system prefers dark", ModeSystem, true, true, ModeDark},
		{"system prefers light", ModeSystem, false, false, ModeLight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Effective(tt.isDay, tt.prefersDark))
		})
	}
}

func TestClampContrast(t *testing.T) {
	assert.Equal(t, ContrastNormal, ClampContrast(-1))
	assert.Equal(t, ContrastHigh, ClampContrast(9))
	assert.Equal(t, ContrastMedium, ClampContrast(2))
}

func TestParseContrast(t *testing.T) {
	c, ok := ParseContrast("2")
	assert.True(t, ok)
	assert.Equal(t, ContrastMedium, c)

	c, ok = ParseContrast("high")
	assert.False(t, ok)
	assert.Equal(t, ContrastNormal, c)

	c, ok = ParseContrast("7")
	assert.False(t, ok)
	assert.Equal(t, ContrastHigh, c)
}

func TestContrastByName(t *testing.T) {
	c, ok := ContrastByName(" High ")
	assert.True(t, ok)
	assert.Equal(t, ContrastHigh, c)

	c, ok = ContrastByName("extreme")
	assert.False(t, ok)
	assert.Equal(t, ContrastNormal, c)
}

func TestContrastLevel_Name(t *testing.T) {
	assert.Equal(t, "normal", ContrastNormal.Name())
	assert.Equal(t, "high", ContrastHigh.Name())
	assert.Equal(t, "high", ContrastLevel(12).Name())
}

func TestParseFontScale(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOk bool
	}{
		{"100", 100, true},
		{"120%", 120, true},
		{" 90 % ", 90, true},
		{"10", FontScaleMin, false},
		{"999%", FontScaleMax, false},
		{"112.6", 113, true},
		{"-40", FontScaleMin, false},
		{"1e300", FontScaleMax, false},
		{"-1e300", FontScaleMin, false},
		{"9999999999999999999", FontScaleMax, false},
		{"-9999999999999999999", FontScaleMin, false},
		{"1e400", FontScaleMax, false},
		{"Inf", FontScaleMax, false},
		{"-Inf", FontScaleMin, false},
		{"NaN", FontScaleDefault, false},
		{"large", FontScaleDefault, false},
		{"", FontScaleDefault, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFontScale(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestNormalizeAccent(t *testing.T) {
	key, ok := NormalizeAccent("Purple")
	assert.True(t, ok)
	assert.Equal(t, "purple", key)

	key, ok = NormalizeAccent("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, DefaultAccent, key)
}

func TestAccents_ReturnsCopy(t *testing.T) {
	a := Accents()
	require.NotEmpty(t, a)
	a[0].Key = "mutated"
	_, ok := LookupAccent("blue")
	assert.True(t, ok)
	assert.Equal(t, "blue", Accents()[0].Key)
}

func TestPreferenceSet_Normalize(t *testing.T) {
	p := PreferenceSet{
		Mode:             "neon",
		ColorAccent:      "nonexistent",
		ContrastLevel:    9,
		FontScalePercent: 10,
		ReducedMotion:    true,
	}

	got, fixed := p.Normalize()

	assert.Equal(t, PreferenceSet{
		Mode:             DefaultMode,
		ColorAccent:      DefaultAccent,
		ContrastLevel:    ContrastHigh,
		FontScalePercent: FontScaleMin,
		ReducedMotion:    true,
	}, got)
	assert.ElementsMatch(t, []Field{FieldMode, FieldColorTheme, FieldContrastLevel, FieldFontSize}, fixed)
}

func TestPreferenceSet_NormalizeValidIsUntouched(t *testing.T) {
	p := Defaults(false)
	got, fixed := p.Normalize()
	assert.Equal(t, p, got)
	assert.Empty(t, fixed)
}
