package collector

import (
	"database/sql"
)

const databasesTopic = "DATABASES"

var databasesMetrics = map[string]*metric{
	"pool_size": {
		name: "pool_size",
		help: "Maximum number of server connections",
	},
	"reserve_pool": {
		name: "reserve_pool",
		help: "Maximum number of additional connections for this database",
	},
	"max_connections": {
		name: "database_max_connections",
		help: "Maximum number of allowed connections for this database",
	},
	"current_connections": {
		name: "database_current_connections",
		help: "Current number of connections for this database",
	},
	"paused": {
		name: "database_paused",
		help: "1 if this database is currently paused, else 0",
	},
	"disabled": {
		name: "database_disabled",
		help: "1 if this database is currently disabled, else 0",
	},
}

// NewDatabasesCollector returns a collector for SHOW DATABASES, labeled by database.
func NewDatabasesCollector(db *sql.DB, opts Options) Interface {
	return newNamedColumnCollector("databases", db, databasesTopic, byDatabase, databasesMetrics, opts)
}
