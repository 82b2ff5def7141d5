package migration

import "embed"

// Embedded holds the SQL migrations compiled into the binary
//
//go:embed sql/*.sql
var Embedded embed.FS

// EmbeddedDir is the directory of Embedded that holds the migration files
const EmbeddedDir = "sql"
