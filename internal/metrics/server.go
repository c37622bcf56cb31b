package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dusk-indust/codenav/internal/logging"
)

// Server exposes /metrics and /health on a side port while the tool server
// runs.
type Server struct {
	addr   string
	server *http.Server
	logger *logrus.Logger
}

// NewServer builds a server for gatherer. health is encoded as the JSON body
// of /health; it may be nil.
func NewServer(addr string, gatherer prometheus.Gatherer, health func() any, logger *logrus.Logger) *Server {
	s := &Server{addr: addr, logger: logging.OrDiscard(logger)}
	s.server = &http.Server{Addr: addr, Handler: Handler(gatherer, health)}
	return s
}

// Handler returns the mux served by Server.
func Handler(gatherer prometheus.Gatherer, health func() any) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var body any = map[string]string{"status": "up"}
		if health != nil {
			body = health()
		}
		json.NewEncoder(w).Encode(body)
	})
	return mux
}

// Start listens in the background.
func (s *Server) Start() {
	s.logger.WithField("addr", s.addr).Info("metrics server starting")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("metrics server failed")
		}
	}()
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
