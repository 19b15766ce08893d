package gallery

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"openHref": func(i int) string { return "?open=" + strconv.Itoa(i) },
	"keyHref": func(i int, k string) string {
		return fmt.Sprintf("?open=%d&key=%s", i, k)
	},
}).ParseFS(templatesFS, "templates/*.html"))

// View is everything the gallery fragment renders.
type View struct {
	PostID string
	Grid   Grid
	Slide  *Slide
}

// NewView builds the fragment state for a post's media. open is the index to
// show in the lightbox (negative for closed) and key, if set, is applied to
// the open lightbox before rendering.
func NewView(postID string, urls, types []string, open int, key Key) View {
	v := View{PostID: postID, Grid: NewGrid(urls, types)}

	lb := NewLightbox(urls, types)
	if lb.Open(open) && key != "" {
		lb.HandleKey(key)
	}
	if s, ok := lb.Current(); ok {
		v.Slide = &s
	}
	return v
}

// Render writes the HTML fragment for v.
func Render(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "gallery.html", v)
}
