package webui

import "embed"

//go:embed templates
var viewsFS embed.FS
