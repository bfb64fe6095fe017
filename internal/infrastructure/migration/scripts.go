package migration

import "embed"

//go:embed scripts
var scriptsFS embed.FS

const (
	mysqlScriptsDir    = "scripts/mysql"
	postgresScriptsDir = "scripts/postgres"
)
