package collector

import (
	"strings"
	"testing"

	"github.com/percona/exporter_shared/helpers"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
)

func TestStatsCollector(t *testing.T) {
	convey.Convey("Metrics are lowercase", t, convey.FailureContinues, func() {
		for c, m := range statsMetrics {
			convey.So(c, convey.ShouldEqual, strings.ToLower(c))
			convey.So(m.name, convey.ShouldEqual, strings.ToLower(m.name))
		}
	})

	db, mock := newMock(t)

	columns := []string{"database", "total_xact_count", "total_query_count", "total_received", "total_sent",
		"total_xact_time", "total_query_time", "total_wait_time", "avg_xact_count"}
	rows := sqlmock.NewRows(columns).
		AddRow("pgbouncer", int64(3), int64(3), int64(0), int64(0), int64(0), int64(0), int64(0), int64(0)).
		AddRow("app", int64(42), nil, int64(1024), int64(2048), int64(500), int64(400), int64(7), int64(1))
	mock.ExpectQuery("SHOW STATS;").WillReturnRows(rows)

	c := NewStatsCollector(db, Options{})
	families, err := c.Collect()
	require.NoError(t, err)

	convey.Convey("One family per descriptor, ordered by key", t, func() {
		var names []string
		for _, f := range families {
			names = append(names, f.Name)
			convey.So(f.LabelNames, convey.ShouldResemble, []string{"database"})
		}
		convey.So(names, convey.ShouldResemble, []string{
			"pgbouncer_queries_total",            // total_query_count
			"pgbouncer_query_microseconds_total", // total_query_time
			"pgbouncer_received_bytes_total",     // total_received
			"pgbouncer_requests_total",           // total_requests
			"pgbouncer_sent_bytes_total",         // total_sent
			"pgbouncer_server_assignments_total", // total_server_assignment_count
			"pgbouncer_wait_microseconds_total",  // total_wait_time
			"pgbouncer_xacts_total",              // total_xact_count
			"pgbouncer_xact_microseconds_total",  // total_xact_time
		})
		convey.So(families[3].Samples, convey.ShouldBeEmpty)
		convey.So(families[5].Samples, convey.ShouldBeEmpty)
	})

	app := prometheus.Labels{"database": "app"}
	pgb := prometheus.Labels{"database": "pgbouncer"}
	counterExpected := []helpers.Metric{
		{Name: "pgbouncer_queries_total", Help: "Total number of queries pooled by pgbouncer (total_query_count)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 3},
		{Name: "pgbouncer_query_microseconds_total", Help: "Total number of microseconds spent by pgbouncer when actively connected to PostgreSQL (total_query_time)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 0},
		{Name: "pgbouncer_query_microseconds_total", Help: "Total number of microseconds spent by pgbouncer when actively connected to PostgreSQL (total_query_time)", Labels: app, Type: dto.MetricType_GAUGE, Value: 400},
		{Name: "pgbouncer_received_bytes_total", Help: "Total volume in bytes of network traffic received by pgbouncer (total_received)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 0},
		{Name: "pgbouncer_received_bytes_total", Help: "Total volume in bytes of network traffic received by pgbouncer (total_received)", Labels: app, Type: dto.MetricType_GAUGE, Value: 1024},
		{Name: "pgbouncer_sent_bytes_total", Help: "Total volume in bytes of network traffic sent by pgbouncer (total_sent)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 0},
		{Name: "pgbouncer_sent_bytes_total", Help: "Total volume in bytes of network traffic sent by pgbouncer (total_sent)", Labels: app, Type: dto.MetricType_GAUGE, Value: 2048},
		{Name: "pgbouncer_wait_microseconds_total", Help: "Total number of microseconds spent waiting by pgbouncer (total_wait_time)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 0},
		{Name: "pgbouncer_wait_microseconds_total", Help: "Total number of microseconds spent waiting by pgbouncer (total_wait_time)", Labels: app, Type: dto.MetricType_GAUGE, Value: 7},
		{Name: "pgbouncer_xacts_total", Help: "Total number of transactions pooled by pgbouncer (total_xact_count)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 3},
		{Name: "pgbouncer_xacts_total", Help: "Total number of transactions pooled by pgbouncer (total_xact_count)", Labels: app, Type: dto.MetricType_GAUGE, Value: 42},
		{Name: "pgbouncer_xact_microseconds_total", Help: "Total number of microseconds spent in transaction by pgbouncer (total_xact_time)", Labels: pgb, Type: dto.MetricType_GAUGE, Value: 0},
		{Name: "pgbouncer_xact_microseconds_total", Help: "Total number of microseconds spent in transaction by pgbouncer (total_xact_time)", Labels: app, Type: dto.MetricType_GAUGE, Value: 500},
	}
	convey.Convey("Metrics comparison", t, convey.FailureContinues, func() {
		convey.So(readFamilies(families), convey.ShouldResemble, counterExpected)
	})

	// Ensure all SQL queries were executed
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCollectorNamespace(t *testing.T) {
	db, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"database", "total_xact_count"}).
		AddRow("app", int64(42))
	mock.ExpectQuery("SHOW STATS;").WillReturnRows(rows)

	families, err := NewStatsCollector(db, Options{Namespace: "bouncer"}).Collect()
	require.NoError(t, err)

	var got []helpers.Metric
	for _, m := range readFamilies(families) {
		got = append(got, m)
		assert.True(t, strings.HasPrefix(m.Name, "bouncer_"), m.Name)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "bouncer_xacts_total", got[0].Name)
	assert.Equal(t, float64(42), got[0].Value)

	assert.NoError(t, mock.ExpectationsWereMet())
}
