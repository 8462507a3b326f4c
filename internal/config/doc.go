// Package config loads editor settings.
//
// Settings come from three layers, applied in order:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually $XDG_CONFIG_HOME/scribe/config.toml
//  3. SCRIBE_* environment variables
//
// A missing file is not an error. A malformed file yields a *ParseError that
// carries the line and column reported by the TOML decoder.
//
// Example config.toml:
//
//	[editor]
//	tab_width = 8
//	line_numbers = true
//	coalesce_timeout = "750ms"
//
//	[ui]
//	theme = "monokai"
//
//	[keymap]
//	"ctrl+k" = "cut"
package config
