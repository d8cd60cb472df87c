package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// TemplateFS holds the layouts and page templates.
var TemplateFS fs.FS = templateFS

// StaticFS holds the stylesheet served under /static/.
var StaticFS fs.FS = staticFS
