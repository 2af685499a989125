package record

import (
	"embed"

	"github.com/zillusion/capsule/database/migration"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations is the SQL schema for PostgreSQL deployments.
func Migrations() migration.Source {
	return migration.Source{FS: migrationFS, Path: "migrations"}
}
