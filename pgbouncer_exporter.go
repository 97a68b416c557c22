package main

import (
	"database/sql"
	stdlog "log"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/percona/exporter_shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/promlog"
	"github.com/prometheus/common/promlog/flag"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"
)

const program = "pgbouncer_exporter"

var (
	listenAddress = kingpin.Flag("web.listen-address", "Address to listen on for web interface and telemetry.").Default(":9127").String()
	metricsPath   = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics.").Default("/metrics").String()
	configFile    = kingpin.Flag("config.file", "Optional YAML configuration file. Values set in the file override flags.").String()

	dsn       = kingpin.Flag("pgbouncer.dsn", "Connection string for the PgBouncer admin console. Overrides host, port, user, password and dbname.").Envar("DATA_SOURCE_NAME").String()
	host      = kingpin.Flag("pgbouncer.host", "PgBouncer host or Unix socket directory.").String()
	port      = kingpin.Flag("pgbouncer.port", "PgBouncer port.").String()
	user      = kingpin.Flag("pgbouncer.user", "PgBouncer admin or stats user.").String()
	password  = kingpin.Flag("pgbouncer.password", "PgBouncer user password.").Envar("PGBOUNCER_PASSWORD").String()
	dbname    = kingpin.Flag("pgbouncer.dbname", "Admin console database name.").Default("pgbouncer").String()
	namespace = kingpin.Flag("pgbouncer.namespace", "Prefix of exported metric names.").Default("pgbouncer").String()
	databases = kingpin.Flag("pgbouncer.database", "Only report this database; may be repeated. All databases when absent.").Strings()

	collectStats     = kingpin.Flag("collect.stats", "Collect from SHOW STATS.").Default("true").Bool()
	collectPools     = kingpin.Flag("collect.pools", "Collect from SHOW POOLS.").Default("true").Bool()
	collectDatabases = kingpin.Flag("collect.databases", "Collect from SHOW DATABASES.").Default("true").Bool()
	collectLists     = kingpin.Flag("collect.lists", "Collect from SHOW LISTS.").Default("true").Bool()
)

// configFromFlags returns the configuration given on the command line, with
// the optional config file applied on top.
func configFromFlags() (*Config, error) {
	cfg := &Config{
		DSN: *dsn,
		Connection: ConnectionConfig{
			Host:     *host,
			Port:     *port,
			User:     *user,
			Password: *password,
			DBName:   *dbname,
		},
		Namespace: *namespace,
		Collect: CollectConfig{
			Stats:     *collectStats,
			Pools:     *collectPools,
			Databases: *collectDatabases,
			Lists:     *collectLists,
		},
	}
	if len(*databases) > 0 {
		cfg.Databases = *databases
	}

	if *configFile != "" {
		if err := loadConfigFile(*configFile, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openAdminConsole opens the shared admin console handle.
// lib/pq sends parameterless queries with the simple protocol outside of a
// transaction, which the console requires.
func openAdminConsole(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func main() {
	promlogConfig := &promlog.Config{}
	flag.AddFlags(kingpin.CommandLine, promlogConfig)
	kingpin.Version(version.Print(program))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := promlog.New(promlogConfig)
	level.Info(logger).Log("msg", "Starting "+program, "version", version.Info())
	level.Info(logger).Log("msg", "Build context", "context", version.BuildContext())

	cfg, err := configFromFlags()
	if err != nil {
		level.Error(logger).Log("msg", "Error loading configuration", "err", err)
		os.Exit(1)
	}

	db, err := openAdminConsole(cfg.dataSourceName())
	if err != nil {
		level.Error(logger).Log("msg", "Error opening connection to PgBouncer", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		version.NewCollector(program),
		NewExporter(db, cfg, logger),
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog:      stdlog.New(log.NewStdlibAdapter(level.Error(logger)), "", 0),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
	exporter_shared.RunServer("PgBouncer", *listenAddress, *metricsPath, handler)
}
