// Package web carries the embedded storefront assets served by the API
// process so the demo runs from a single binary.
package web

import "embed"

//go:embed templates
var Templates embed.FS

//go:embed static
var Static embed.FS
