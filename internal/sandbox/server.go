// Package sandbox emulates the item CRUD service over HTTP so the SDK can be
// exercised end to end without the real upstream. Items live in any
// crud.Backend: the in-memory mock by default, or SQLite via sqlitestore.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ratio1/crud_sdk_go/pkg/crud"
)

const (
	msgInvalidKey    = "invalid api key"
	msgLimitExceeded = "Request limit exceeded"
	msgInternal      = "internal error"
	msgBadBody       = "could not read request body"
)

// Config controls the sandbox behaviour.
type Config struct {
	// Store holds the items. Required.
	Store crud.Backend
	// APIKeys lists the accepted x-api-key values. When empty any non-blank
	// key is accepted.
	APIKeys []string
	// Credits is the number of requests each key may issue before the
	// sandbox answers 403. Zero means unlimited.
	Credits int
	// Latency is slept before every item request.
	Latency time.Duration
	// Fail injects random failures.
	Fail FailConfig
	// Logger receives request logs. Defaults to a standard logrus logger.
	Logger logrus.FieldLogger
	// Rand overrides the failure-injection dice (tests).
	Rand func() float64
}

// Server is the sandbox HTTP server.
type Server struct {
	router  *gin.Engine
	store   crud.Backend
	logger  logrus.FieldLogger
	keys    map[string]struct{}
	credits int

	mu   sync.Mutex
	used map[string]int
}

// New builds a sandbox server from cfg.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("sandbox: store is required")
	}
	if cfg.Credits < 0 {
		return nil, fmt.Errorf("sandbox: credits must be >= 0, got %d", cfg.Credits)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	dice := cfg.Rand
	if dice == nil {
		dice = rand.Float64
	}

	keys := make(map[string]struct{}, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}

	s := &Server{
		router:  gin.New(),
		store:   cfg.Store,
		logger:  logger,
		keys:    keys,
		credits: cfg.Credits,
		used:    make(map[string]int),
	}
	s.router.Use(recovery(logger), requestLogger(logger))
	s.setupRoutes(cfg.Latency, cfg.Fail, dice)
	return s, nil
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes(latency time.Duration, fail FailConfig, dice func() float64) {
	items := s.router.Group("/items")
	items.Use(injectFaults(latency, fail, dice), s.authenticate(), s.meter())
	{
		items.POST("", s.handleCreate())
		items.GET("/:id", s.handleGet())
		items.PUT("/:id", s.handleUpdate())
		items.DELETE("/:id", s.handleDelete())
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "crud-sandbox"})
	})
}

func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
			return
		}
		out, err := s.store.Create(c.Request.Context(), body)
		s.reply(c, http.StatusCreated, out, err)
	}
}

func (s *Server) handleGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := s.store.Get(c.Request.Context(), c.Param("id"))
		s.reply(c, http.StatusOK, out, err)
	}
}

func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
			return
		}
		out, err := s.store.Update(c.Request.Context(), c.Param("id"), body)
		s.reply(c, http.StatusOK, out, err)
	}
}

func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := s.store.Delete(c.Request.Context(), c.Param("id"))
		s.reply(c, http.StatusOK, out, err)
	}
}

// reply writes the store result verbatim, or maps a store error onto the
// status the real service would use.
func (s *Server) reply(c *gin.Context, status int, body []byte, err error) {
	if err == nil {
		c.Data(status, "application/json", body)
		return
	}

	var cerr *crud.Error
	switch {
	case errors.Is(err, crud.ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, gin.H{"error": msgLimitExceeded})
	case errors.As(err, &cerr) && cerr.StatusCode != 0:
		c.JSON(cerr.StatusCode, gin.H{"message": cerr.Message})
	default:
		s.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("sandbox: store failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}
