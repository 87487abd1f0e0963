package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Default day window for Auto mode, in local hours.
const (
	DefaultDayStartHour = 6
	DefaultDayEndHour   = 18
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// String returns the comma separated triplet used by --primary-rgb.
func (c RGB) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// HexToRGB parses #rgb or #rrggbb, with or without the leading #.
func HexToRGB(hex string) (RGB, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, true
}

// RGBToHex formats c as lowercase #rrggbb.
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// AdjustBrightness scales every channel by (100+percent)/100, clamped to [0,255].
func AdjustBrightness(c RGB, percent float64) RGB {
	factor := 1 + percent/100
	return RGB{
		R: clampChannel(float64(c.R) * factor),
		G: clampChannel(float64(c.G) * factor),
		B: clampChannel(float64(c.B) * factor),
	}
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Mix blends a towards b by t in [0,1] in linear RGB.
func Mix(a, b RGB, t float64) RGB {
	t = math.Max(0, math.Min(1, t))
	r1, g1, b1 := a.colorful().LinearRgb()
	r2, g2, b2 := b.colorful().LinearRgb()
	mixed := colorful.LinearRgb(r1+t*(r2-r1), g1+t*(g2-g1), b1+t*(b2-b1)).Clamped()
	r, g, bl := mixed.RGB255()
	return RGB{R: r, G: g, B: bl}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// RelativeLuminance implements the WCAG 2.x definition.
func RelativeLuminance(c RGB) float64 {
	linear := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between a and b, from 1 to 21.
func ContrastRatio(a, b RGB) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// ContrastGrade names the WCAG 2.x conformance level a ratio reaches for
// normal-size text: AAA, AA, AA Large, or Fail.
func ContrastGrade(ratio float64) string {
	switch {
	case ratio >= 7:
		return "AAA"
	case ratio >= 4.5:
		return "AA"
	case ratio >= 3:
		return "AA Large"
	default:
		return "Fail"
	}
}

// IsDayTime reports whether now falls in [startHour, endHour) local time.
func IsDayTime(now time.Time, startHour, endHour int) bool {
	h := now.Hour()
	return h >= startHour && h < endHour
}

// ValidDayWindow reports whether start and end describe a usable window.
func ValidDayWindow(startHour, endHour int) bool {
	return startHour >= 0 && endHour <= 24 && startHour < endHour
}
