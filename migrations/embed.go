package migrations

import "embed"

// Files holds the forward-only SQL migrations for the on-device journal
// store, embedded so a single binary can bootstrap a fresh data directory.
//
//go:embed *.sql
var Files embed.FS
