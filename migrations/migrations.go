// Package migrations embeds the Postgres schema. Files follow golang-migrate
// naming ({version}_{title}.{up|down}.sql) and are applied at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
