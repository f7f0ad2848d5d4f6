package questdb

import "embed"

// MigrationDir is the directory inside Migrations holding the *.up.sql / *.down.sql pairs.
const MigrationDir = "migrations"

// Migrations holds the mbp10 schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
