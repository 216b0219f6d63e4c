package httpapi

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/*
 Server is the HTTP surface of the parser service.

 Routes:
 - GET /api/parse/{domain}  rating lookup, JSON result or error body
 - GET /healthz             liveness probe
 - GET /metrics             Prometheus collectors

 The server owns no lookup semantics. It translates classified lookup
 errors into status codes and JSON bodies; the resolver decides
 everything else. A path without a domain segment never reaches the
 resolver: the mux rejects it before routing.
*/

type Server struct {
	resolver   Resolver
	httpServer *http.Server
}

func NewServer(listenAddr string, reviewResolver Resolver) *Server {
	s := &Server{
		resolver: reviewResolver,
	}
	s.httpServer = &http.Server{
		Addr:    listenAddr,
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/parse/{domain}", s.handleParse)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Handler exposes the route tree so tests can drive it without binding
// a socket.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
