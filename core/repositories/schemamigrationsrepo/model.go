package schemamigrationsrepo

import "time"

// SchemaMigration is one applied migration file as recorded by Migrate.
type SchemaMigration struct {
	Version   string    `db:"version" json:"version"`
	Checksum  string    `db:"checksum" json:"checksum"`
	AppliedAt time.Time `db:"applied_at" json:"applied_at"`
}
