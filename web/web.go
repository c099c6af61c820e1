// Package web holds the embedded static assets for the form UI.
package web

import "embed"

//go:embed static
var StaticFS embed.FS
