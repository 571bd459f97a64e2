package httpx

import (
	"context"
	"io"
	"net/http"
	"sort"
	"time"
)

const (
	healthResponse      = `{"status":"ok"}`
	readinessTimeout    = 2 * time.Second
	readinessStatusOK   = "ok"
	readinessStatusFail = "unavailable"
)

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		return
	}
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// readinessHandler runs every check with a shared deadline and answers 503
// when any of them fails.
func readinessHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := readinessResponse{Status: readinessStatusOK, Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Status = readinessStatusFail
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = readinessStatusOK
		}

		status := http.StatusOK
		if resp.Status != readinessStatusOK {
			status = http.StatusServiceUnavailable
		}
		WriteJSON(w, status, resp)
	}
}
