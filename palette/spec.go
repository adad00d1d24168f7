package palette

import "image/color"

// Spec is the derived page theme. It is a value: a new avatar produces a
// new Spec, an existing one is never patched.
type Spec struct {
	BgFrom     string `yaml:"bg_from,omitempty" json:"bgFrom"`
	BgMid      string `yaml:"bg_mid,omitempty" json:"bgMid"`
	BgTo       string `yaml:"bg_to,omitempty" json:"bgTo"`
	Accent     string `yaml:"accent,omitempty" json:"accent"`
	AccentSoft string `yaml:"accent_soft,omitempty" json:"accentSoft"`
	ChipBg     string `yaml:"chip_bg,omitempty" json:"chipBg"`
	ChipText   string `yaml:"chip_text,omitempty" json:"chipText"`
	Link       string `yaml:"link,omitempty" json:"link"`
}

// Fallback returns the theme used whenever no image is given or extraction
// fails.
func Fallback() Spec {
	return fallback
}

var fallback = Spec{
	BgFrom:     "#f7f4ef",
	BgMid:      "#fefefe",
	BgTo:       "#f1e7d6",
	Accent:     "#c62828",
	AccentSoft: "#e57373",
	ChipBg:     "rgba(198,40,40,0.08)",
	ChipText:   "#a72a2a",
	Link:       "#0b5aaa",
}

// Var is a CSS custom property.
type Var struct {
	Name  string
	Value string
}

// Vars lists the palette as CSS custom properties in a fixed order.
func (s Spec) Vars() []Var {
	return []Var{
		{"--bg-from", s.BgFrom},
		{"--bg-mid", s.BgMid},
		{"--bg-to", s.BgTo},
		{"--accent", s.Accent},
		{"--accent-soft", s.AccentSoft},
		{"--chip-bg", s.ChipBg},
		{"--chip-text", s.ChipText},
		{"--link", s.Link},
	}
}

func (s Spec) values() []string {
	return []string{s.BgFrom, s.BgMid, s.BgTo, s.Accent, s.AccentSoft, s.ChipBg, s.ChipText, s.Link}
}

// Valid reports whether every field holds a well-formed color.
func (s Spec) Valid() bool {
	for _, v := range s.values() {
		if _, err := ParseCSS(v); err != nil {
			return false
		}
	}
	return true
}

// Palette returns the eight colors in Vars order. Malformed fields map to
// transparent black.
func (s Spec) Palette() color.Palette {
	vals := s.values()
	pal := make(color.Palette, len(vals))
	for i, v := range vals {
		c, err := ParseCSS(v)
		if err != nil {
			c = color.NRGBA{}
		}
		pal[i] = c
	}
	return pal
}

// Override returns s with every non-empty field of o replacing its own.
func (s Spec) Override(o Spec) Spec {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Spec{
		BgFrom:     pick(s.BgFrom, o.BgFrom),
		BgMid:      pick(s.BgMid, o.BgMid),
		BgTo:       pick(s.BgTo, o.BgTo),
		Accent:     pick(s.Accent, o.Accent),
		AccentSoft: pick(s.AccentSoft, o.AccentSoft),
		ChipBg:     pick(s.ChipBg, o.ChipBg),
		ChipText:   pick(s.ChipText, o.ChipText),
		Link:       pick(s.Link, o.Link),
	}
}
