// Package migrations embeds the SQL migration files in the binary.
package migrations

import "embed"

// FS contains the postgres migrations.
// File name format: {version}_{name}.sql (e.g. 0001_init.sql).
//
//go:embed *.sql
var FS embed.FS
