// Package db embeds the database schema applied on startup.
package db

import _ "embed"

// Schema holds the DDL for all tables. RunMigrations executes it verbatim;
// every statement is idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string
