package collector

import (
	"database/sql"
)

const poolsTopic = "POOLS"

// https://www.pgbouncer.org/usage.html#show-pools
var poolsMetrics = map[string]*metric{
	"cl_active": {
		name: "active_clients",
		help: "Client connections that are linked to server connection and can process queries",
	},
	"cl_waiting": {
		name: "waiting_clients",
		help: "Client connections have sent queries but have not yet got a server connection",
	},
	"sv_active": {
		name: "sv_active",
		help: "Server connections that linked to client.",
	},
	"sv_idle": {
		name: "sv_idle",
		help: "Server connections that unused and immediately usable for client queries.",
	},
	"sv_used": {
		name: "sv_used",
		help: "Server connections that have been idle more than server_check_delay, so they needs server_check_query to run on it before it can be used.",
	},
	"sv_tested": {
		name: "sv_tested",
		help: "Server connections that are currently running either server_reset_query or server_check_query.",
	},
	"sv_login": {
		name: "sv_login",
		help: "Server connections currently in logging in process.",
	},
	"maxwait": {
		name: "max_wait_seconds",
		help: "How long the first (oldest) client in the queue has waited, in seconds.",
	},
	"maxwait_us": {
		name: "max_wait_microseconds",
		help: "Microsecond part of the maximum waiting time.",
	},
}

// NewPoolsCollector returns a collector for SHOW POOLS, labeled by database and user.
func NewPoolsCollector(db *sql.DB, opts Options) Interface {
	return newNamedColumnCollector("pools", db, poolsTopic, byPool, poolsMetrics, opts)
}
