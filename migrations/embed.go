// Package migrations embeds the versioned schema for every supported driver.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
