package collector

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const listsTopic = "LISTS"

// listsCollector extracts process-wide counters from SHOW LISTS.
type listsCollector struct {
	db    *sql.DB
	descs []*descriptor
}

// NewListsCollector returns a collector for SHOW LISTS.
// Options.Databases is ignored: list counters are not per database.
func NewListsCollector(db *sql.DB, opts Options) Interface {
	return &listsCollector{
		db:    db,
		descs: newDescriptors(opts.namespace(), listsMetrics, nil),
	}
}

// https://www.pgbouncer.org/usage.html#show-lists
var listsMetrics = map[string]*metric{
	"databases": {
		name: "databases",
		help: "Number of databases",
	},
	"users": {
		name: "users",
		help: "Number of users",
	},
	"pools": {
		name: "pools",
		help: "Number of pools",
	},
	"free_clients": {
		name: "free_clients",
		help: "Number of free clients",
	},
	"used_clients": {
		name: "used_clients",
		help: "Number of used clients",
	},
	"login_clients": {
		name: "login_clients",
		help: "Number of clients in the login stats",
	},
	"free_servers": {
		name: "free_servers",
		help: "Number of free servers",
	},
	"used_servers": {
		name: "used_servers",
		help: "Number of used servers",
	},
	"dns_names": {
		name: "dns_names",
		help: "Count of DNS names in the cache",
	},
	"dns_zones": {
		name: "dns_zones",
		help: "Count of DNS zones in the cache",
	},
	"dns_queries": {
		name: "dns_queries",
		help: "Count of in-flight DNS queries",
	},
	"dns_pending": {
		name: "dns_pending",
		help: "Count of pending DNS queries",
	},
}

func (c *listsCollector) Name() string {
	return "lists"
}

func (c *listsCollector) Describe(ch chan<- *prometheus.Desc) {
	describeAll(c.descs, ch)
}

func (c *listsCollector) Collect() ([]*MetricFamily, error) {
	data, err := fetchSingleRow(c.db, listsTopic)
	if err != nil {
		return nil, err
	}

	command := showCommand(listsTopic)
	families := make([]*MetricFamily, 0, len(c.descs))
	for _, d := range c.descs {
		raw, ok := data[d.key]
		if !ok || raw == nil {
			return nil, &MissingFieldError{Command: command, Field: d.key}
		}
		value, ok := asFloat(raw)
		if !ok {
			return nil, &FetchError{Command: command, Err: errors.Errorf("field %q: %v is not a number", d.key, raw)}
		}

		f := newMetricFamily(d, nil)
		f.add(nil, value)
		families = append(families, f)
	}
	return families, nil
}

// check interfaces
var (
	_ Interface = (*listsCollector)(nil)
)
