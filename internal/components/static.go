package components

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Static returns the site's stylesheet, script and images, rooted so that
// "styles.css" is served at /static/styles.css.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
