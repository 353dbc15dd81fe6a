package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/office/internal/adapters/export"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// TaskLogHandler handles work log requests
type TaskLogHandler struct {
	taskLogService ports.TaskLogService
	logger         *logger.Logger
}

// NewTaskLogHandler creates a new task log handler
func NewTaskLogHandler(taskLogService ports.TaskLogService, logger *logger.Logger) *TaskLogHandler {
	return &TaskLogHandler{
		taskLogService: taskLogService,
		logger:         logger,
	}
}

// ListForUser returns the work logs of a user, newest first
//
//	@Summary	List a user's work logs
//	@Tags		task-logs
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user_id	path	string	true	"User ID"
//	@Success	200		{array}	TaskLogResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/task-logs/{user_id} [get]
func (h *TaskLogHandler) ListForUser(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	logs, err := h.taskLogService.ListForUser(c.Request().Context(), actor, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTaskLogResponses(logs))
}

// CreateTaskLog records work done by the caller
//
//	@Summary	Create a work log
//	@Tags		task-logs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		ports.CreateTaskLogRequest	true	"Work log"
//	@Success	200		{object}	TaskLogResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/task-logs [post]
func (h *TaskLogHandler) CreateTaskLog(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ports.CreateTaskLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	log, err := h.taskLogService.CreateTaskLog(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTaskLogResponse(log))
}

// ExportForUser streams the visible work logs of a user as a spreadsheet
//
//	@Summary	Export a user's work logs
//	@Tags		task-logs
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Security	BearerAuth
//	@Param		user_id	path	string	true	"User ID"
//	@Success	200
//	@Failure	403	{object}	ErrorResponse
//	@Router		/task-logs/{user_id}/export [get]
func (h *TaskLogHandler) ExportForUser(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	logs, err := h.taskLogService.ListForUser(c.Request().Context(), actor, userID)
	if err != nil {
		return err
	}

	buf, err := export.TaskLogs(logs)
	if err != nil {
		return fmt.Errorf("failed to export task logs: %w", err)
	}

	return attachment(c, fmt.Sprintf("task-logs-%s.xlsx", userID), buf.Bytes())
}

func attachment(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType, body)
}
