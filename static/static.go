package static

import "embed"

var (
	//go:embed css js
	Files embed.FS
)
