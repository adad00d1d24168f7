package palette

// Tuned constants. They have no derivation beyond looking right on typical
// avatars and are kept as-is.
var (
	bgToAnchor = RGB{240, 240, 240}
	linkAnchor = RGB{40, 90, 180}

	accentShift = RGB{60, -40, -40}
	accentMin   = RGB{80, 30, 30}
	accentMax   = RGB{210, 120, 120}
)

const (
	bgFromRatio     = 0.85
	bgMidRatio      = 0.95
	bgToRatio       = 0.5
	accentSoftRatio = 0.5
	chipTextRatio   = 0.1
	chipBgOpacity   = 0.10

	linkRatioR = 0.2
	linkRatioG = 0.4
	linkRatioB = 0.6
)

// Accent returns the accent tone for a base color, always inside
// [80,210] for red and [30,120] for green and blue.
func Accent(base RGB) RGB {
	return base.Add(accentShift).Clamp(accentMin, accentMax)
}

// FromBase derives the full palette from a base color.
func FromBase(base RGB) Spec {
	accent := Accent(base)

	return Spec{
		BgFrom:     base.Mix(White, bgFromRatio).Hex(),
		BgMid:      base.Mix(White, bgMidRatio).Hex(),
		BgTo:       base.Mix(bgToAnchor, bgToRatio).Hex(),
		Accent:     accent.Hex(),
		AccentSoft: accent.Mix(White, accentSoftRatio).Hex(),
		ChipBg:     accent.Translucent(chipBgOpacity),
		ChipText:   accent.Mix(Black, chipTextRatio).Hex(),
		Link:       base.MixEach(linkAnchor, linkRatioR, linkRatioG, linkRatioB).Hex(),
	}
}
