package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) AuthHandler {
	return AuthHandler{
		authService: authService,
	}
}

// Login exchanges username/password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if request.Username == "" || request.Password == "" {
		logger.Warn("HTTP: validation failed",
			zap.String("error", "empty_credentials"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	token, err := h.authService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: token issued",
		zap.String("username", request.Username),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithToken(w, http.StatusOK, token)
}
