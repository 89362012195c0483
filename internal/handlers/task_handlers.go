package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) TaskHandler {
	return TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task fetched",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if request.Name == "" || request.Description == "" ||
		request.ExecutionDate.IsZero() || request.ProjectID <= 0 {
		logger.Warn("HTTP: validation failed",
			zap.String("error", "missing_required_fields"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	task, err := h.taskService.Create(r.Context(),
		request.ProjectID, request.Name, request.Description, request.ExecutionDate.Time)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.Int("task_id", task.ID),
		zap.Int("project_id", task.ProjectID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: could not decode JSON body",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithErrors(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	update := service.TaskUpdate{
		Name:        request.Name,
		Description: request.Description,
	}
	if request.ExecutionDate != nil {
		update.ExecutionDate = &request.ExecutionDate.Time
	}

	task, err := h.taskService.Update(r.Context(), id, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Finish(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Finish(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task finished",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, task)
}
