package folio

import "embed"

// EmbeddedAssets contains assets shipped with the binary: favicon.svg.
// A file of the same name in the static dir takes precedence.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
