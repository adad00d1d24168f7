package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"folio/avatar"
	"folio/palette"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"iconSize": func(size int) int {
		return max(32, size*45/100)
	},
}).ParseFS(templateFS, "templates/index.html.tmpl"))

// Page is everything the template needs.
type Page struct {
	Profile Profile
	Palette palette.Spec
	Avatar  avatar.View
	Year    int
}

func (p Page) Placeholder() bool {
	return p.Avatar.Kind == avatar.Placeholder
}

// Theme renders the palette as a :root rule. Values come from palette.Spec,
// whose fields are checked before rendering.
func (p Page) Theme() template.CSS {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, v := range p.Palette.Vars() {
		fmt.Fprintf(&sb, "  %s: %s;\n", v.Name, v.Value)
	}
	sb.WriteString("}")
	return template.CSS(sb.String())
}

// Render writes the page. It refuses palettes with malformed colors since
// they end up unescaped in the stylesheet.
func Render(w io.Writer, page Page) error {
	if !page.Palette.Valid() {
		return fmt.Errorf("invalid palette: %+v", page.Palette)
	}
	if err := pageTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("could not render page: %w", err)
	}
	return nil
}
