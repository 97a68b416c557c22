package collector

import (
	"database/sql"
)

const statsTopic = "STATS"

// https://www.pgbouncer.org/usage.html#show-stats
// key - column name.
var statsMetrics = map[string]*metric{
	"total_xact_count": {
		name: "xacts_total",
		help: "Total number of transactions pooled by pgbouncer",
	},
	"total_query_count": {
		name: "queries_total",
		help: "Total number of queries pooled by pgbouncer",
	},
	"total_xact_time": {
		name: "xact_microseconds_total",
		help: "Total number of microseconds spent in transaction by pgbouncer",
	},
	"total_wait_time": {
		name: "wait_microseconds_total",
		help: "Total number of microseconds spent waiting by pgbouncer",
	},
	// Reported by PgBouncer before 1.8 only.
	"total_requests": {
		name: "requests_total",
		help: "Total number of SQL requests pooled by pgbouncer",
	},
	"total_received": {
		name: "received_bytes_total",
		help: "Total volume in bytes of network traffic received by pgbouncer",
	},
	"total_sent": {
		name: "sent_bytes_total",
		help: "Total volume in bytes of network traffic sent by pgbouncer",
	},
	"total_query_time": {
		name: "query_microseconds_total",
		help: "Total number of microseconds spent by pgbouncer when actively connected to PostgreSQL",
	},
	"total_server_assignment_count": {
		name: "server_assignments_total",
		help: "Total number of times a server was assigned to a client by pgbouncer",
	},
}

// NewStatsCollector returns a collector for SHOW STATS, labeled by database.
func NewStatsCollector(db *sql.DB, opts Options) Interface {
	return newNamedColumnCollector("stats", db, statsTopic, byDatabase, statsMetrics, opts)
}
