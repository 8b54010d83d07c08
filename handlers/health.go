package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kerrizor/buffet/app"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck probes every registered adapter. The gateway is ready when
// at least one photo service answers its availability probe.
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		available := 0
		for _, name := range deps.Registry.Services() {
			adapter, err := deps.Registry.Get(name)
			if err != nil {
				continue
			}
			if adapter.Available(ctx) {
				checks[string(name)] = "available"
				available++
			} else {
				checks[string(name)] = "unavailable"
			}
		}

		status := "ready"
		httpStatus := http.StatusOK
		if available == 0 {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := []string{}
		for _, name := range deps.Registry.Services() {
			services = append(services, string(name))
		}

		response := map[string]interface{}{
			"version":     "0.1.0",
			"environment": deps.Config.Environment,
			"services":    services,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
