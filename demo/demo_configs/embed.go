package demo_configs

import (
	"embed"
)

// FS embeds the built-in demo scenario YAMLs so cmd/run and cmd/svr
// work without any external config directory.
//
//go:embed *.yaml
var FS embed.FS
