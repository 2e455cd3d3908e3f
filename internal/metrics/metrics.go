// Package metrics exposes Prometheus metrics for the dashboard.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the dashboard metrics. It implements
// dataset.LoadObserver and geocode.Observer.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	GeocodeRequests  *prometheus.CounterVec
	GeocodeDurations prometheus.Histogram

	DatasetLoads   *prometheus.CounterVec
	DatasetRecords prometheus.Gauge

	FilteredRecords prometheus.Histogram
}

// NewCollector registers the dashboard metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route, method and status code.",
	}, []string{"route", "method", "code"}), "explorer_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "explorer_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"route", "method"}), "explorer_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	geocodes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_geocode_requests_total",
		Help: "Address lookups, labeled by outcome.",
	}, []string{"outcome"}), "explorer_geocode_requests_total")
	if err != nil {
		return nil, err
	}

	geocodeDurations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "explorer_geocode_duration_seconds",
		Help:    "Address lookup latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}), "explorer_geocode_duration_seconds")
	if err != nil {
		return nil, err
	}

	loads, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_dataset_loads_total",
		Help: "Dataset load attempts, labeled by result.",
	}, []string{"result"}), "explorer_dataset_loads_total")
	if err != nil {
		return nil, err
	}

	records, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "explorer_dataset_records",
		Help: "Number of records in the currently loaded dataset.",
	}), "explorer_dataset_records")
	if err != nil {
		return nil, err
	}

	filtered, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "explorer_filtered_records",
		Help:    "Number of records matching the filters of each explore request.",
		Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2500},
	}), "explorer_filtered_records")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		HTTPRequests:     requests,
		HTTPDurations:    durations,
		GeocodeRequests:  geocodes,
		GeocodeDurations: geocodeDurations,
		DatasetLoads:     loads,
		DatasetRecords:   records,
		FilteredRecords:  filtered,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request.
func (c *Collector) ObserveHTTP(route, method string, code int, took time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	c.HTTPDurations.WithLabelValues(route, method).Observe(took.Seconds())
}

// ObserveGeocode satisfies geocode.Observer.
func (c *Collector) ObserveGeocode(outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.GeocodeRequests.WithLabelValues(outcome).Inc()
	if took > 0 {
		c.GeocodeDurations.Observe(took.Seconds())
	}
}

// ObserveDatasetLoad satisfies dataset.LoadObserver.
func (c *Collector) ObserveDatasetLoad(records int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.DatasetLoads.WithLabelValues("error").Inc()
		return
	}
	c.DatasetLoads.WithLabelValues("ok").Inc()
	c.DatasetRecords.Set(float64(records))
}

// ObserveFiltered records the size of one filtered selection.
func (c *Collector) ObserveFiltered(n int) {
	if c == nil {
		return
	}
	c.FilteredRecords.Observe(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
