package goals

import "embed"

// WebFS contains the frontend bundle served at / and /static/.
//
//go:embed web
var WebFS embed.FS
