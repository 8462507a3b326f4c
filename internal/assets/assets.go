// Package assets embeds the built-in grammars and themes.
//
// Grammars live under grammars/ as YAML, themes under themes/ as TOML.
// highlight.Registry.LoadFS reads both directories.
package assets

import "embed"

//go:embed grammars/*.yaml themes/*.toml
var FS embed.FS
