// Package schema contains embedded migration files.
package schema

import "embed"

// Directories inside MigrationsFS, one per SQL dialect.
const (
	PostgresDir = "pgmigrations"
	MySQLDir    = "mysqlmigrations"
)

// MigrationsFS contains the SQL migrations for every supported database.
//
//go:embed pgmigrations/*.sql mysqlmigrations/*.sql
var MigrationsFS embed.FS
