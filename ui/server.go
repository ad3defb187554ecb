package ui

import (
	"html/template"
	"net/http"

	"exportlens/adapters/excel"
	"exportlens/app"
	"exportlens/internal"
	"exportlens/internal/errors"

	"github.com/gin-gonic/gin"
)

// Options holds the upload settings of the web server
type Options struct {
	PreviewRows    int
	Parallelism    int
	MaxUploadBytes int64
}

// Server represents the web server for the export dashboard. It keeps no
// per-user state: every request carries the files it works on.
type Server struct {
	router    *gin.Engine
	reader    *excel.DataReader
	insights  *app.InsightService
	templates *template.Template
	options   Options
	logger    *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(reader *excel.DataReader, insights *app.InsightService, options Options) (*Server, error) {
	if options.PreviewRows <= 0 {
		options.PreviewRows = 100
	}
	if options.Parallelism <= 0 {
		options.Parallelism = 1
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if options.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = options.MaxUploadBytes
	}

	s := &Server{
		router:    router,
		reader:    reader,
		insights:  insights,
		templates: templates,
		options:   options,
		logger:    internal.DefaultLogger.With("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/chart-kinds", s.handleChartKinds)
	api.POST("/upload", s.handleUpload)
	api.POST("/chart", s.handleChart)
	api.POST("/insight", s.handleInsight)

	s.router.NoRoute(func(c *gin.Context) {
		s.respondError(c, errors.NotFound("route "+c.Request.URL.Path))
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting export dashboard on http://%s", addr)
	return s.router.Run(addr)
}
