package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/infrastructure/metrics"
	"github.com/taskflow/office/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, m *metrics.Metrics, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		metrics:     m,
		logger:      logger,
	}
}

// ListTasks returns the tasks visible to the caller
//
//	@Summary	List visible tasks
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	TaskResponse
//	@Router		/tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// GetTask returns a single task
//
//	@Summary	Get a task
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	TaskResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// CreateTask creates a task assigned by the caller
//
//	@Summary	Create a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		ports.CreateTaskRequest	true	"Task"
//	@Success	200		{object}	TaskResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}
	h.metrics.TaskChanged("created")

	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// UpdateTask applies a partial update
//
//	@Summary	Update a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Task ID"
//	@Param		body	body		ports.UpdateTaskRequest	true	"Fields to change"
//	@Success	200		{object}	TaskResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}
	h.metrics.TaskChanged("updated")

	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// DeleteTask removes a task and its assignments
//
//	@Summary	Delete a task
//	@Tags		tasks
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Task ID"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, id); err != nil {
		return err
	}
	h.metrics.TaskChanged("deleted")

	return c.NoContent(http.StatusNoContent)
}
