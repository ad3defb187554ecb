package ui

import (
	"net/http"

	"exportlens/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ProfilingApp serves runtime profiles on a port separate from the dashboard
type ProfilingApp struct {
	router *chi.Mux
	logger *internal.Logger
}

// NewProfilingApp creates the profiling side server
func NewProfilingApp() *ProfilingApp {
	a := &ProfilingApp{
		router: chi.NewRouter(),
		logger: internal.DefaultLogger.With("Profiling"),
	}
	a.router.Use(middleware.Recoverer)
	a.router.Mount("/debug", middleware.Profiler())
	a.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/pprof/", http.StatusFound)
	})
	return a
}

// Handler exposes the router, mainly for tests
func (a *ProfilingApp) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *ProfilingApp) Start(port string) error {
	a.logger.Info("Performance profiling server starting on :%s", port)
	a.logger.Info("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", port)
	return http.ListenAndServe(":"+port, a.router)
}
