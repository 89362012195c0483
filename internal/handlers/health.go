package handlers

import (
	"context"
	"net/http"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

func HealthCheck(store HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.HttpRequestInfo(r, "HTTP: health check")

		if err := store.HealthCheck(r.Context()); err != nil {
			responseWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
