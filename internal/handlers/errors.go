package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

// handleServiceError renders any service failure as the Result/Errors
// envelope. Business errors map to their status; everything else is a 500.
func handleServiceError(w http.ResponseWriter, err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithErrors(w, statusCode, businessErr.Message)
		return
	}

	logger.Error("HTTP: service error", err)
	responseWithErrors(w, http.StatusInternalServerError, "Sorry, something is going wrong, please try again.")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeInvalidCredentials:
		return http.StatusBadRequest
	case service.CodeAccountDisabled:
		return http.StatusForbidden
	case service.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
