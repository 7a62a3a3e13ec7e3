package views

import (
	"html/template"
	"strings"

	"github.com/unrolled/render"
)

// NewRenderer loads the embedded templates. Template names drop the
// directory and extension, e.g. "menu".
func NewRenderer() *render.Render {
	return render.New(render.Options{
		Directory:  "templates",
		FileSystem: &render.EmbedFileSystem{FS: FS},
		Extensions: []string{".html"},
		Funcs: []template.FuncMap{
			{
				"title": func(s string) string {
					if s == "" {
						return s
					}
					return strings.ToUpper(s[:1]) + s[1:]
				},
			},
		},
	})
}
