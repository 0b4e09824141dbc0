package assets

import _ "embed"

// DefaultsTOML embeds the seed datasets (salary distribution, initial salary
// history, default budget template, palette).
//
//go:embed defaults.toml
var DefaultsTOML []byte
