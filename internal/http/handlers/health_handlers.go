package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// HealthHandlers reports process uptime and dependency status
type HealthHandlers struct {
	started time.Time
	checks  map[string]HealthCheck
}

func NewHealthHandlers(checks map[string]HealthCheck) *HealthHandlers {
	return &HealthHandlers{started: time.Now(), checks: checks}
}

// Health answers 200 when every check passes and 503 otherwise
func (h *HealthHandlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	message := "OK"
	deps := make(gin.H, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			message = "DEGRADED"
			continue
		}
		deps[name] = "ok"
	}

	c.JSON(status, gin.H{
		"uptime":       time.Since(h.started).Seconds(),
		"message":      message,
		"timestamp":    time.Now().UnixMilli(),
		"dependencies": deps,
	})
}
