package exporter

import (
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newMux routes the scrape path to the registry and config.SubmissionsPath to
// the submissions recorded by mem.
func newMux(path string, reg *prometheus.Registry, mem *engine.Memory) *http.ServeMux {
	scrape := promhttp.InstrumentMetricHandler(reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}))

	mux := http.NewServeMux()
	mux.Handle(path, withRequestLog("scrape", scrape))
	mux.Handle(config.SubmissionsPath, withRequestLog("submissions", submissionsHandler(mem)))
	return mux
}

func submissionsHandler(mem *engine.Memory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		subs := mem.Submissions()
		if ping := r.URL.Query().Get("ping"); ping != "" {
			filtered := subs[:0]
			for _, s := range subs {
				if s.Ping == ping {
					filtered = append(filtered, s)
				}
			}
			subs = filtered
		}
		if subs == nil {
			subs = []engine.Submission{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(subs); err != nil {
			slog.Warn("failed to write submissions", "error", err)
		}
	})
}

// withRequestLog logs each request at debug level.
func withRequestLog(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("http request", "handler", name, "remote", r.RemoteAddr, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}
