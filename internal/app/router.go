package app

import (
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all endpoints. Routes that change a schedule sit behind Basic Auth.
func NewRouter(s *Server, static fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(AccessLog)

	r.Get("/", s.ServeIndex)
	r.Handle("/metrics", MetricsHandler())
	if static != nil {
		r.Handle("/static/*", http.FileServer(http.FS(static)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.GetConfig)
		r.Get("/calendar", s.HandleCalendar)
		r.Get("/days", s.HandleDays)
		r.Get("/export", s.HandleExport)

		r.Group(func(r chi.Router) {
			r.Use(s.Auth.Require)
			r.Post("/toggle", s.HandleToggle)
			r.Post("/reset", s.HandleReset)
			r.Post("/import", s.HandleImport)
			r.Post("/save", s.HandleSave)
		})
	})

	return r
}

// statusWriter captures the status code and byte count of a response
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// AccessLog logs method, path, status, size and duration of each request
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, sw.status, sw.bytes, time.Since(start).Round(time.Microsecond))
	})
}
