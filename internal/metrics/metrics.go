// Package metrics exposes Prometheus counters for parsing and indexing.
// A nil *Collector is valid and records nothing, so library code can take
// one as an optional dependency.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the pgn-tree metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	gamesParsed   prometheus.Counter
	movesParsed   prometheus.Counter
	parseErrors   *prometheus.CounterVec
	gamesIndexed  *prometheus.CounterVec
	bytesScanned  prometheus.Counter
	indexDuration prometheus.Histogram
}

// NewCollector registers the metrics on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	return NewCollectorWith(reg, reg)
}

// NewCollectorWith registers the metrics on reg and serves them from g.
func NewCollectorWith(reg prometheus.Registerer, g prometheus.Gatherer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		gatherer: g,
		gamesParsed: f.NewCounter(prometheus.CounterOpts{
			Name: "pgntree_games_parsed_total",
			Help: "Total number of games read by the parser",
		}),
		movesParsed: f.NewCounter(prometheus.CounterOpts{
			Name: "pgntree_moves_parsed_total",
			Help: "Total number of moves resolved by the parser",
		}),
		parseErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pgntree_parse_errors_total",
			Help: "Total number of recoverable parse errors",
		}, []string{"kind"}),
		gamesIndexed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pgntree_games_indexed_total",
			Help: "Total number of games written to the offset index",
		}, []string{"file"}),
		bytesScanned: f.NewCounter(prometheus.CounterOpts{
			Name: "pgntree_bytes_scanned_total",
			Help: "Total number of bytes read by the scanners",
		}),
		indexDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pgntree_index_duration_seconds",
			Help:    "Duration of indexing one file in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
	}
}

// GameParsed counts one game.
func (c *Collector) GameParsed() {
	if c == nil {
		return
	}
	c.gamesParsed.Inc()
}

// MoveParsed counts one resolved move.
func (c *Collector) MoveParsed() {
	if c == nil {
		return
	}
	c.movesParsed.Inc()
}

// ParseError counts a recoverable error of the given kind, such as
// "invalid_move" or "invalid_nag".
func (c *Collector) ParseError(kind string) {
	if c == nil {
		return
	}
	c.parseErrors.WithLabelValues(kind).Inc()
}

// FileIndexed records the games and scanned bytes of one indexed file.
func (c *Collector) FileIndexed(file string, games int, bytes int64, d time.Duration) {
	if c == nil {
		return
	}
	c.gamesIndexed.WithLabelValues(file).Add(float64(games))
	c.bytesScanned.Add(float64(bytes))
	c.indexDuration.Observe(d.Seconds())
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
