// Thematic - Material color themes as design library assets
//
// Thematic derives Material color themes from a source color and manages
// them as host document assets: schemes, state layers and tonal palettes.
//
// Copyright (c) 2026 The Thematic Authors
// Licensed under the MIT License
package main

import (
	"github.com/thematic-dev/thematic/internal/cli"
)

func main() {
	cli.Execute()
}
