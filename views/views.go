// Package views embeds the HTML templates of the public menu.
package views

import "embed"

//go:embed templates/*.html
var FS embed.FS
