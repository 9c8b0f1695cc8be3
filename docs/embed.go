// Package docs bundles long-form Markdown documentation into the cr binary.
package docs

import "embed"

// FS contains the topic files served by `cr docs`.
//
//go:embed topics
var FS embed.FS
