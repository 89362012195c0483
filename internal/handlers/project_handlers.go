package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) ProjectHandler {
	return ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projects, err := h.projectService.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: projects listed",
		zap.Int("count", len(projects)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: project fetched",
		zap.Int("project_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if request.Name == "" || request.Description == "" ||
		request.StartDate.IsZero() || request.EndDate.IsZero() {
		logger.Warn("HTTP: validation failed",
			zap.String("error", "missing_required_fields"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	project, err := h.projectService.Create(r.Context(),
		request.Name, request.Description, request.StartDate.Time, request.EndDate.Time)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: project created",
		zap.Int("project_id", project.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	update := service.ProjectUpdate{
		Name:        request.Name,
		Description: request.Description,
	}
	if request.EndDate != nil {
		update.EndDate = &request.EndDate.Time
	}

	project, err := h.projectService.Update(r.Context(), id, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: project updated",
		zap.Int("project_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: project deleted",
		zap.Int("project_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Finish(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.Finish(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: project finished",
		zap.Int("project_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, project)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		logger.Warn("HTTP: invalid id parameter",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return 0, false
	}
	return id, true
}
