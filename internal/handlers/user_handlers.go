package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) UserHandler {
	return UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	users, err := h.userService.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: users listed",
		zap.Int("count", len(users)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request UserRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if request.Username == "" || request.Password == "" {
		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if _, err := mail.ParseAddress(request.Email); err != nil {
		logger.Warn("HTTP: validation failed",
			zap.String("field", "email"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	token, err := h.userService.Register(r.Context(),
		request.Username, request.Email, request.Password, request.IsAdministrator)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: user registered",
		zap.String("username", request.Username),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithToken(w, http.StatusOK, token)
}

func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	var request ToggleUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.IsEnable == nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	token, err := h.userService.SetEnabled(r.Context(), id, *request.IsEnable)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: user status toggled",
		zap.String("user_id", id),
		zap.Bool("is_enable", *request.IsEnable),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithToken(w, http.StatusOK, token)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if request.Username == "" || request.Password == "" || request.NewPassword == "" {
		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	token, err := h.userService.ChangePassword(r.Context(),
		request.Username, request.Password, request.NewPassword)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: password changed",
		zap.String("username", request.Username),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithToken(w, http.StatusOK, token)
}
