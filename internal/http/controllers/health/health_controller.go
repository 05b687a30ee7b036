// Package health contains the liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/todolabs/todolist/internal/http/helpers"
)

// Pinger is anything whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller answers /healthz and /readyz.
type Controller struct {
	deps map[string]Pinger
}

// NewController creates a health Controller. deps maps a dependency name to
// its pinger; the map may be empty.
func NewController(deps map[string]Pinger) *Controller {
	return &Controller{deps: deps}
}

// Healthz is pure liveness: the process is up.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz checks every dependency with a short deadline and reports 503 when
// any is unreachable.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}
	for name, p := range c.deps {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "unreachable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	helpers.WriteJSON(w, status, body)
}
