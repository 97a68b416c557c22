package collector

import (
	"database/sql"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// labelSchema selects which row fields become label values.
type labelSchema int

const (
	byDatabase labelSchema = iota // [database]
	byPool                        // [database, user]
)

func (s labelSchema) names() []string {
	switch s {
	case byPool:
		return []string{"database", "user"}
	default:
		return []string{"database"}
	}
}

func (s labelSchema) values(row Row) []string {
	switch s {
	case byPool:
		return []string{row.String("database"), row.String("user")}
	default:
		return []string{row.String("database")}
	}
}

// namedColumnCollector maps multi-row SHOW results, one row per database or
// pool, to labeled gauges.
type namedColumnCollector struct {
	name      string
	db        *sql.DB
	topic     string
	labels    labelSchema
	descs     []*descriptor
	databases map[string]struct{}
}

func newNamedColumnCollector(name string, db *sql.DB, topic string, labels labelSchema, table map[string]*metric, opts Options) *namedColumnCollector {
	return &namedColumnCollector{
		name:      name,
		db:        db,
		topic:     topic,
		labels:    labels,
		descs:     newDescriptors(opts.namespace(), table, labels.names()),
		databases: opts.databaseSet(),
	}
}

func (c *namedColumnCollector) Name() string {
	return c.name
}

func (c *namedColumnCollector) Describe(ch chan<- *prometheus.Desc) {
	describeAll(c.descs, ch)
}

func (c *namedColumnCollector) Collect() ([]*MetricFamily, error) {
	labelNames := c.labels.names()
	families := make([]*MetricFamily, len(c.descs))
	for i, d := range c.descs {
		families[i] = newMetricFamily(d, labelNames)
	}

	rows, err := fetchRows(c.db, c.topic)
	if err != nil {
		return nil, err
	}

	// first row wins when several rows share label values, e.g. two
	// SHOW DATABASES entries pointing at the same backend database
	seen := make([]map[string]struct{}, len(c.descs))
	for i := range seen {
		seen[i] = make(map[string]struct{})
	}

	for _, row := range rows {
		if !c.includes(row.String("database")) {
			continue
		}

		var labelValues []string
		for i, d := range c.descs {
			value, ok := row.Float(d.key)
			if !ok {
				continue
			}
			if labelValues == nil {
				labelValues = c.labels.values(row)
			}
			id := strings.Join(labelValues, "\xff")
			if _, dup := seen[i][id]; dup {
				continue
			}
			seen[i][id] = struct{}{}
			families[i].add(labelValues, value)
		}
	}

	return families, nil
}

func (c *namedColumnCollector) includes(database string) bool {
	if c.databases == nil {
		return true
	}
	_, ok := c.databases[database]
	return ok
}

// check interfaces
var (
	_ Interface = (*namedColumnCollector)(nil)
)
