package collector

import (
	"fmt"
	"sort"

	_ "github.com/lib/pq" // register SQL driver
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the metric name prefix used when Options.Namespace is empty.
const DefaultNamespace = "pgbouncer"

// Interface is implemented by every PgBouncer collector.
type Interface interface {
	// Name identifies the collector in logs and in the scrape_errors_total metric.
	Name() string

	// Describe sends descriptors of all metric families the collector may return.
	Describe(ch chan<- *prometheus.Desc)

	// Collect runs the collector's SHOW command and returns one family per
	// descriptor, ordered by field key.
	Collect() ([]*MetricFamily, error)
}

// Options configure a collector at construction time.
type Options struct {
	// Namespace is the metric name prefix. DefaultNamespace is used when empty.
	Namespace string

	// Databases restricts per-database collectors to the named databases.
	// nil means all databases.
	Databases []string
}

func (o Options) namespace() string {
	if o.Namespace == "" {
		return DefaultNamespace
	}
	return o.Namespace
}

func (o Options) databaseSet() map[string]struct{} {
	if o.Databases == nil {
		return nil
	}
	set := make(map[string]struct{}, len(o.Databases))
	for _, d := range o.Databases {
		set[d] = struct{}{}
	}
	return set
}

// metric contains information about Prometheus metric.
type metric struct {
	name string
	help string
}

// descriptor binds a result field to its fully qualified metric.
type descriptor struct {
	key  string
	name string
	help string
	desc *prometheus.Desc
}

// newDescriptors builds descriptors for every entry of table, sorted by field key.
func newDescriptors(namespace string, table map[string]*metric, labels []string) []*descriptor {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]*descriptor, 0, len(keys))
	for _, k := range keys {
		m := table[k]
		name := prometheus.BuildFQName(namespace, "", m.name)
		help := fmt.Sprintf("%s (%s)", m.help, k)
		res = append(res, &descriptor{
			key:  k,
			name: name,
			help: help,
			desc: prometheus.NewDesc(name, help, labels, nil),
		})
	}
	return res
}

func describeAll(descs []*descriptor, ch chan<- *prometheus.Desc) {
	for _, d := range descs {
		ch <- d.desc
	}
}

// Sample is a single value of a MetricFamily.
type Sample struct {
	LabelValues []string
	Value       float64
}

// MetricFamily is the output of one descriptor for one Collect call.
type MetricFamily struct {
	Name       string
	Help       string
	LabelNames []string
	Samples    []Sample

	desc *prometheus.Desc
}

func newMetricFamily(d *descriptor, labels []string) *MetricFamily {
	return &MetricFamily{
		Name:       d.name,
		Help:       d.help,
		LabelNames: labels,
		desc:       d.desc,
	}
}

func (f *MetricFamily) add(labelValues []string, value float64) {
	f.Samples = append(f.Samples, Sample{LabelValues: labelValues, Value: value})
}

// Metrics returns samples as constant gauges, in sample order.
func (f *MetricFamily) Metrics() []prometheus.Metric {
	res := make([]prometheus.Metric, 0, len(f.Samples))
	for _, s := range f.Samples {
		res = append(res, prometheus.MustNewConstMetric(f.desc, prometheus.GaugeValue, s.Value, s.LabelValues...))
	}
	return res
}
