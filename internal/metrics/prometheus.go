package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// GaugeSource reports point-in-time values scraped alongside the counters.
type GaugeSource func(ctx context.Context) (map[string]int64, error)

// PrometheusHandler exposes Metrics in Prometheus' text exposition format.
//
// Counters go out as one metric with an `event` label; gauges as one metric
// with a `state` label.
func PrometheusHandler(m *Metrics, gauges GaugeSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			http.Error(w, "metrics not configured", http.StatusInternalServerError)
			return
		}

		snap := m.Snapshot()
		keys := make([]string, 0, len(snap))
		for k := range snap {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = fmt.Fprintln(w, "# HELP roulette_events_total Internal event counters.")
		_, _ = fmt.Fprintln(w, "# TYPE roulette_events_total counter")
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "roulette_events_total{event=\"%s\"} %d\n", escapeLabel(k), snap[k])
		}

		if gauges == nil {
			return
		}
		values, err := gauges(r.Context())
		if err != nil {
			return
		}
		names := make([]string, 0, len(values))
		for k := range values {
			names = append(names, k)
		}
		sort.Strings(names)
		_, _ = fmt.Fprintln(w, "# HELP roulette_participants Current matchmaker state.")
		_, _ = fmt.Fprintln(w, "# TYPE roulette_participants gauge")
		for _, k := range names {
			_, _ = fmt.Fprintf(w, "roulette_participants{state=\"%s\"} %d\n", escapeLabel(k), values[k])
		}
	})
}

func escapeLabel(s string) string {
	return strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n").Replace(s)
}
