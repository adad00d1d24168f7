package palette

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// RGB is a color with float channels in the 0-255 range. Channels may hold
// fractional or out-of-range values while a palette is being derived; they
// are clamped and rounded only when encoded.
type RGB struct {
	R, G, B float64
}

var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// mix moves c toward anchor by t (0 keeps c, 1 yields anchor) and rounds.
func mix(c, anchor, t float64) float64 {
	return math.Round(c + (anchor-c)*t)
}

// Mix moves every channel toward anchor by the same ratio.
func (c RGB) Mix(anchor RGB, t float64) RGB {
	return c.MixEach(anchor, t, t, t)
}

// MixEach moves each channel toward anchor by its own ratio.
func (c RGB) MixEach(anchor RGB, tr, tg, tb float64) RGB {
	return RGB{
		R: mix(c.R, anchor.R, tr),
		G: mix(c.G, anchor.G, tg),
		B: mix(c.B, anchor.B, tb),
	}
}

func (c RGB) Add(d RGB) RGB {
	return RGB{c.R + d.R, c.G + d.G, c.B + d.B}
}

// Clamp limits each channel to the matching channels of lo and hi.
func (c RGB) Clamp(lo, hi RGB) RGB {
	return RGB{
		R: clamp(c.R, lo.R, hi.R),
		G: clamp(c.G, lo.G, hi.G),
		B: clamp(c.B, lo.B, hi.B),
	}
}

func channel(v float64) uint8 {
	return uint8(clamp(math.Round(v), 0, 255))
}

// Bytes returns the channels clamped to [0,255] and rounded.
func (c RGB) Bytes() (r, g, b uint8) {
	return channel(c.R), channel(c.G), channel(c.B)
}

// Hex encodes the color as lowercase #rrggbb.
func (c RGB) Hex() string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Translucent encodes the color as a CSS rgba() with the given opacity.
func (c RGB) Translucent(alpha float64) string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", r, g, b, clamp(alpha, 0, 1))
}

func (c RGB) NRGBA(alpha uint8) color.NRGBA {
	r, g, b := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// FromColor converts any color to RGB, dropping alpha.
func FromColor(col color.Color) RGB {
	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	return RGB{float64(c.R), float64(c.G), float64(c.B)}
}

// ParseHex reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.NRGBA, error) {
	if (len(s) < 1) || (s[0] != '#') || strings.ContainsFunc(s[1:], notHexDigit) {
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	c := color.NRGBA{A: 0xFF}
	var (
		n, want int
		err     error
	)
	switch len(s) {
	case 4:
		want = 3
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
	case 5:
		want = 4
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		want = 3
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 9:
		want = 4
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	if err != nil {
		return color.NRGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < want {
		return color.NRGBA{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	return c, nil
}

func notHexDigit(r rune) bool {
	return !strings.ContainsRune("0123456789abcdefABCDEF", r)
}

// parseRGBA reads the rgba(r,g,b,a) form produced by Translucent.
func parseRGBA(s string) (color.NRGBA, error) {
	if !strings.HasPrefix(s, "rgba(") || !strings.HasSuffix(s, ")") ||
		strings.ContainsFunc(s[len("rgba("):len(s)-1], func(r rune) bool {
			return !strings.ContainsRune("0123456789., ", r)
		}) {
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should be rgba(r,g,b,a)", s)
	}

	var (
		r, g, b int
		a       float64
	)
	n, err := fmt.Sscanf(s, "rgba(%d,%d,%d,%g)", &r, &g, &b, &a)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 4 {
		return color.NRGBA{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("channel out of range in %q: %d", s, v)
		}
	}
	if a < 0 || a > 1 {
		return color.NRGBA{}, fmt.Errorf("opacity out of range in %q: %g", s, a)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(math.Round(a * 255))}, nil
}

// ParseCSS reads either a hex color or an rgba() color.
func ParseCSS(s string) (color.NRGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		return ParseHex(s)
	}
	return parseRGBA(s)
}
