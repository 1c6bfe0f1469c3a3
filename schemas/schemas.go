// Package schemas embeds the JSON schemas for structured scorer input.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
