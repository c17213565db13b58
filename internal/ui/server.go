// Package ui serves the local web page with the URL box, the two action
// buttons and the status area.
package ui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/v0xg/jobgate/internal/metrics"
)

//go:embed templates/index.html
var templateFS embed.FS

// Actions are the operations behind the buttons. *dispatch.Dispatcher
// implements it.
type Actions interface {
	OpenExisting(ctx context.Context, raw string) string
	AutoLogin(ctx context.Context, raw string) string
}

// Example pre-fills the URL box.
type Example struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

var Examples = []Example{
	{Label: "ASU Workday Job", URL: "https://www.myworkday.com/asu/d/wday/vps/INTERNAL_CAREER_SITE_FOR_Students/apply/62b26821e81c100205d995488e240000.htmld"},
	{Label: "Google", URL: "https://www.google.com"},
}

const busyStatus = "⚠ An auto-login is already running. Wait for it to finish and try again."

type urlRequest struct {
	URL string `json:"url" form:"url"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Options tunes the action rate limit.
type Options struct {
	// Rate is the sustained number of actions per second
	Rate  rate.Limit
	Burst int
}

// DefaultOptions allows one action per second with a burst of two, enough
// to absorb a double-click.
var DefaultOptions = Options{Rate: 1, Burst: 2}

// Server holds the UI routes.
type Server struct {
	actions Actions
	logger  *zap.Logger
	limiter *rate.Limiter

	// autoLogin serializes attempts on the shared automation profile
	autoLogin sync.Mutex
}

func New(actions Actions, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		actions: actions,
		logger:  logger,
		limiter: rate.NewLimiter(opts.Rate, opts.Burst),
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), metrics.Middleware())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/index.html")))

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/examples", func(c *gin.Context) { c.JSON(http.StatusOK, Examples) })

	actions := api.Group("", rateLimit(s.limiter))
	actions.POST("/open", s.open)
	actions.POST("/autologin", s.autologin)
	return r
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Examples": Examples})
}

func (s *Server) open(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, statusResponse{Status: "✗ Bad request: " + err.Error()})
		return
	}
	status := s.actions.OpenExisting(context.WithoutCancel(c.Request.Context()), req.URL)
	c.JSON(http.StatusOK, statusResponse{Status: status})
}

func (s *Server) autologin(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, statusResponse{Status: "✗ Bad request: " + err.Error()})
		return
	}
	if !s.autoLogin.TryLock() {
		c.JSON(http.StatusConflict, statusResponse{Status: busyStatus})
		return
	}
	defer s.autoLogin.Unlock()

	// The attempt finishes even if the page that asked for it goes away.
	status := s.actions.AutoLogin(context.WithoutCancel(c.Request.Context()), req.URL)
	c.JSON(http.StatusOK, statusResponse{Status: status})
}

// Run serves the UI on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("UI server started", zap.String("addr", "http://"+addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down UI server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
