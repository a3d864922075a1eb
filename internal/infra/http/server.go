package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

// NewRouter api может быть nil: тогда только /health и /metrics.
func NewRouter(exposeMetrics bool, api *API) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	if exposeMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	if api != nil {
		api.Register(r.PathPrefix("/api").Subrouter())
	}
	return r
}

func New(addr string, exposeMetrics bool, api *API) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(exposeMetrics, api),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
