package sandbox

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const headerAPIKey = "x-api-key"

// FailConfig describes random failure injection: a request fails with Code
// with probability Rate.
type FailConfig struct {
	Rate float64
	Code int
}

// ParseFailConfig parses "rate=<float>,code=<httpStatus>". An empty string
// disables injection; code defaults to 500.
func ParseFailConfig(raw string) (FailConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return FailConfig{}, nil
	}
	cfg := FailConfig{Code: http.StatusInternalServerError}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return FailConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "rate":
			rate, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return FailConfig{}, fmt.Errorf("invalid fail rate %q: %w", val, err)
			}
			if rate < 0 || rate > 1 {
				return FailConfig{}, fmt.Errorf("fail rate must be within [0,1], got %v", rate)
			}
			cfg.Rate = rate
		case "code":
			code, err := strconv.Atoi(val)
			if err != nil {
				return FailConfig{}, fmt.Errorf("invalid fail code %q: %w", val, err)
			}
			if code < 100 || code > 599 {
				return FailConfig{}, fmt.Errorf("fail code must be an HTTP status, got %d", code)
			}
			cfg.Code = code
		default:
			return FailConfig{}, fmt.Errorf("unknown fail key %q", key)
		}
	}
	return cfg, nil
}

func injectFaults(delay time.Duration, fail FailConfig, dice func() float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if fail.Rate > 0 && dice() < fail.Rate {
			c.AbortWithStatusJSON(fail.Code, gin.H{"message": "failure injected"})
			return
		}
		c.Next()
	}
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(headerAPIKey)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidKey})
			return
		}
		if len(s.keys) > 0 {
			if _, ok := s.keys[key]; !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidKey})
				return
			}
		}
		c.Next()
	}
}

// meter charges one credit per request to the caller's key.
func (s *Server) meter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.credits == 0 {
			c.Next()
			return
		}
		key := c.GetHeader(headerAPIKey)

		s.mu.Lock()
		spent := s.used[key] >= s.credits
		if !spent {
			s.used[key]++
		}
		s.mu.Unlock()

		if spent {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgLimitExceeded})
			return
		}
		c.Next()
	}
}

func recovery(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
				}).Errorf("sandbox: panic: %v", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
			}
		}()
		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("sandbox: request")
	}
}
