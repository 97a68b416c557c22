// Copyright 2016-2017 Percona LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"database/sql"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/percona/pgbouncer_exporter/collector"
)

// Exporter collects PgBouncer metrics.
// It implements prometheus.Collector interface.
type Exporter struct {
	// serializes scrapes: the admin console connection is shared
	mu sync.Mutex

	collectors                []collector.Interface
	logger                    log.Logger
	scrapesTotal              prometheus.Counter
	scrapeErrorsTotal         *prometheus.CounterVec
	lastScrapeDurationSeconds prometheus.Gauge
	upDesc                    *prometheus.Desc
}

// NewExporter returns a new PgBouncer exporter reading from db.
// Collectors are enabled by cfg and always run in the order stats, pools, databases, lists.
func NewExporter(db *sql.DB, cfg *Config, logger log.Logger) *Exporter {
	opts := collector.Options{
		Namespace: cfg.Namespace,
		Databases: cfg.Databases,
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = collector.DefaultNamespace
	}

	var collectors []collector.Interface
	if cfg.Collect.Stats {
		collectors = append(collectors, collector.NewStatsCollector(db, opts))
	}
	if cfg.Collect.Pools {
		collectors = append(collectors, collector.NewPoolsCollector(db, opts))
	}
	if cfg.Collect.Databases {
		collectors = append(collectors, collector.NewDatabasesCollector(db, opts))
	}
	if cfg.Collect.Lists {
		collectors = append(collectors, collector.NewListsCollector(db, opts))
	}

	return &Exporter{
		collectors: collectors,
		logger:     logger,

		scrapesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exporter",
			Name:      "scrapes_total",
			Help:      "Total number of times PgBouncer was scraped for metrics.",
		}),
		scrapeErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exporter",
			Name:      "scrape_errors_total",
			Help:      "Total number of times an error occurred scraping a PgBouncer.",
		}, []string{"collector"}),
		lastScrapeDurationSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "exporter",
			Name:      "last_scrape_duration_seconds",
			Help:      "Duration of the last scrape of metrics from PgBouncer.",
		}),
		upDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "up"),
			"Whether the last scrape of PgBouncer succeeded.",
			nil, nil,
		),
	}
}

// Describe sends the super-set of all possible descriptors of metrics collected by this Collector
// to the provided channel and returns once the last descriptor has been sent.
// Part of prometheus.Collector interface.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range e.collectors {
		c.Describe(ch)
	}

	ch <- e.upDesc
	e.scrapesTotal.Describe(ch)
	e.scrapeErrorsTotal.Describe(ch)
	e.lastScrapeDurationSeconds.Describe(ch)
}

// Collect is called by the Prometheus registry when collecting metrics.
// Part of prometheus.Collector interface.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mu.Lock()
	defer e.mu.Unlock()

	metrics, err := e.scrape()
	if err != nil {
		// fails the whole scrape in the registry
		ch <- prometheus.NewInvalidMetric(e.upDesc, err)
	} else {
		for _, m := range metrics {
			ch <- m
		}
		ch <- prometheus.MustNewConstMetric(e.upDesc, prometheus.GaugeValue, 1)
	}

	e.scrapesTotal.Collect(ch)
	e.scrapeErrorsTotal.Collect(ch)
	e.lastScrapeDurationSeconds.Collect(ch)
}

// scrape runs all collectors in order and stops at the first error,
// in which case no collector metrics are returned.
func (e *Exporter) scrape() ([]prometheus.Metric, error) {
	e.scrapesTotal.Inc()
	defer func(begun time.Time) {
		e.lastScrapeDurationSeconds.Set(time.Since(begun).Seconds())
	}(time.Now())

	var metrics []prometheus.Metric
	for _, c := range e.collectors {
		families, err := c.Collect()
		if err != nil {
			level.Error(e.logger).Log("msg", "Error scraping PgBouncer", "collector", c.Name(), "err", err)
			e.scrapeErrorsTotal.WithLabelValues(c.Name()).Inc()
			return nil, err
		}
		for _, f := range families {
			metrics = append(metrics, f.Metrics()...)
		}
	}
	return metrics, nil
}

// check interface
var _ prometheus.Collector = (*Exporter)(nil)
