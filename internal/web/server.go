// Package web serves the daemon's status page, JSON snapshot and health probe.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/sweeney/thermal-sensor/internal/status"
)

// Server exposes a status.Tracker over HTTP. All routes are read-only.
type Server struct {
	srv     *http.Server
	tracker *status.Tracker
}

// New builds a Server for addr. Nothing listens until ListenAndServe or Serve.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	routes := map[string]func(http.ResponseWriter, status.Snapshot){
		"/":           writeHTML,
		"/index.html": writeHTML,
		"/index.json": writeJSON,
		"/health":     writeHealth,
	}

	mux := http.NewServeMux()
	for path, write := range routes {
		mux.Handle(path, s.readOnly(path, write))
	}
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// readOnly matches path exactly, accepts only GET and HEAD and hands the
// current snapshot to write.
func (s *Server) readOnly(path string, write func(http.ResponseWriter, status.Snapshot)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		write(w, s.tracker.Snapshot())
	})
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeHTML(w http.ResponseWriter, snap status.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func writeJSON(w http.ResponseWriter, snap status.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// writeHealth reports 503 only while the sensor fault fail-safe is active.
// A thermal UNSAFE state is a valid reading and stays 200.
func writeHealth(w http.ResponseWriter, snap status.Snapshot) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if snap.Faulted {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("SENSOR FAULT\n"))
		return
	}
	w.Write([]byte("OK\n"))
}
