// AngelaMos | 2026
// metrics.go

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks entry lifecycle events. Collectors register against the
// default registry, so New must be called at most once per process; all
// recording methods are nil-safe so tests can run without a registry.
type Metrics struct {
	EntriesCreated prometheus.Counter
	EntriesUpdated prometheus.Counter
	EntriesDeleted prometheus.Counter
	Exports        prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rolodex_entries_created_total",
			Help: "Total contact entries created",
		}),
		EntriesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rolodex_entries_updated_total",
			Help: "Total contact entries updated",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rolodex_entries_deleted_total",
			Help: "Total contact entries deleted",
		}),
		Exports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rolodex_exports_total",
			Help: "Total CSV exports served",
		}),
	}
}

// IncCreated records one successful entry creation.
func (m *Metrics) IncCreated() {
	if m != nil {
		m.EntriesCreated.Inc()
	}
}

// IncUpdated records one successful entry update.
func (m *Metrics) IncUpdated() {
	if m != nil {
		m.EntriesUpdated.Inc()
	}
}

// IncDeleted records one successful entry deletion.
func (m *Metrics) IncDeleted() {
	if m != nil {
		m.EntriesDeleted.Inc()
	}
}

// IncExports records one served CSV export.
func (m *Metrics) IncExports() {
	if m != nil {
		m.Exports.Inc()
	}
}
