// Package web serves the single-page question form over HTTP.
package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Dispatcher is the engine-facing subset the web layer needs.
type Dispatcher interface {
	Ready() bool
	Dispatch(ctx context.Context, question string) string
}

// Server renders the question form and forwards submissions to the engine.
type Server struct {
	dispatcher Dispatcher
	summary    string
	loadErr    string
	logger     *slog.Logger
}

// New creates a web server. loadErr, when non-empty, is the startup index
// load failure shown as a banner; querying stays disabled for the session.
func New(dispatcher Dispatcher, summary, loadErr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dispatcher: dispatcher, summary: summary, loadErr: loadErr, logger: logger}
}

type pageData struct {
	Summary    string
	Warning    string
	Validation string
	Question   string
	Answer     string
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	r.GET("/", s.handleIndex)
	r.POST("/ask", s.handleAsk)
	r.POST("/api/ask", s.handleAskJSON)
	r.GET("/healthz", s.handleHealth)
	return r
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html.tmpl", s.page())
}

func (s *Server) handleAsk(c *gin.Context) {
	data := s.page()
	question := strings.TrimSpace(c.PostForm("question"))
	if question == "" {
		// Validation happens here, before the dispatcher is ever invoked.
		data.Validation = "Please enter a query."
		c.HTML(http.StatusBadRequest, "index.html.tmpl", data)
		return
	}
	data.Question = question
	data.Answer = s.dispatcher.Dispatch(c.Request.Context(), question)
	c.HTML(http.StatusOK, "index.html.tmpl", data)
}

func (s *Server) handleAskJSON(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a query."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": s.dispatcher.Dispatch(c.Request.Context(), question)})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok", "index_loaded": s.dispatcher.Ready()}
	if !s.dispatcher.Ready() {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

func (s *Server) page() pageData {
	data := pageData{Summary: s.summary}
	if !s.dispatcher.Ready() {
		data.Warning = "The index could not be loaded. Please check your setup."
		if s.loadErr != "" {
			data.Warning = s.loadErr
		}
	}
	return data
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
