// Package server exposes autosuggest lookups over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/lookup"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/router"
)

// Server is the autosuggest HTTP API.
type Server struct {
	cfg    *config.Config
	lookup *lookup.Service
	log    *logging.Logger
	engine *gin.Engine
}

// New creates a Server with routes and middleware installed.
func New(cfg *config.Config, svc *lookup.Service, log *logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		lookup: svc,
		log:    logging.Default(log).With("component", "server"),
		engine: gin.New(),
	}

	s.engine.Use(RequestID(), AccessLog(s.log), Recovery(s.log))
	if mw := CORS(cfg.CORS); mw != nil {
		s.engine.Use(mw)
	}
	s.engine.Use(Language(i18n.NewMatcher(cfg.Languages)))

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/autosuggest/:fieldname/", s.handleAll)
	s.engine.GET("/autosuggest/:fieldname/:searchstr/", s.handleSearch)
	s.engine.NoRoute(func(c *gin.Context) {
		writeJSONError(c, http.StatusNotFound, "not found", "not_found")
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAll(c *gin.Context) {
	records, err := s.lookup.All(c.Request.Context(), c.Param("fieldname"))
	s.respond(c, records, err)
}

func (s *Server) handleSearch(c *gin.Context) {
	records, err := s.lookup.Search(c.Request.Context(), c.Param("fieldname"), c.Param("searchstr"))
	s.respond(c, records, err)
}

func (s *Server) respond(c *gin.Context, records []models.ConceptRecord, err error) {
	switch {
	case errors.Is(err, router.ErrUnknownField):
		writeJSONError(c, http.StatusNotFound, err.Error(), "unknown_field")
	case err != nil:
		s.log.Error("lookup failed", "field", c.Param("fieldname"), "error", err)
		writeJSONError(c, http.StatusInternalServerError, "lookup failed", "internal")
	default:
		if records == nil {
			records = []models.ConceptRecord{}
		}
		c.JSON(http.StatusOK, records)
	}
}

func writeJSONError(c *gin.Context, code int, message, errCode string) {
	c.AbortWithStatusJSON(code, gin.H{"error": gin.H{"message": message, "code": errCode}})
}
