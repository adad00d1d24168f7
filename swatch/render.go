package swatch

import (
	"fmt"
	"io"
	"strings"

	"folio/palette"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// solid returns the opaque hex form of a palette value; rgba() values lose
// their opacity.
func solid(v string) string {
	c, err := palette.ParseCSS(v)
	if err != nil {
		return "#000000"
	}
	return palette.FromColor(c).Hex()
}

func chip(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

// Lightness is the perceptual (OKLab) lightness of c, 0 to 1.
func Lightness(c palette.RGB) float64 {
	r, g, b := c.Bytes()
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	l, _, _ := col.OkLab()
	return l
}

// WriteSpec prints one swatch per palette variable.
func WriteSpec(w io.Writer, spec palette.Spec) error {
	var sb strings.Builder
	for _, v := range spec.Vars() {
		fmt.Fprintf(&sb, "  %s %-13s %s\n", chip(solid(v.Value)), v.Name, v.Value)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteEntry prints a scanned image: its base color, lightness and palette.
func WriteEntry(w io.Writer, e Entry) error {
	header := fmt.Sprintf("%s %s %s\n", titleStyle.Render(e.Name), chip(e.Base.Hex()),
		mutedStyle.Render(fmt.Sprintf("base %s L=%.3f", e.Base.Hex(), Lightness(e.Base))))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	return WriteSpec(w, e.Spec)
}
