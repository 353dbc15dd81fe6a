package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/office/internal/adapters/export"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/infrastructure/metrics"
	"github.com/taskflow/office/internal/ports"
)

// AttendanceHandler handles check-in, check-out and history requests
type AttendanceHandler struct {
	attendanceService ports.AttendanceService
	metrics           *metrics.Metrics
	logger            *logger.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService ports.AttendanceService, m *metrics.Metrics, logger *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		metrics:           m,
		logger:            logger,
	}
}

// Status returns the caller's state for today
//
//	@Summary	Today's attendance state
//	@Tags		attendance
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	AttendanceStatusResponse
//	@Router		/attendance/status [get]
func (h *AttendanceHandler) Status(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	status, err := h.attendanceService.Status(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AttendanceStatusResponse{
		State:       status.State.String(),
		IsCheckedIn: status.IsCheckedIn,
		CheckIn:     utc(status.CheckIn),
		CheckOut:    utc(status.CheckOut),
	})
}

// CheckIn opens today's record
//
//	@Summary	Check in
//	@Tags		attendance
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	AttendanceResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/attendance/checkin [post]
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	record, err := h.attendanceService.CheckIn(c.Request().Context(), actor)
	h.metrics.AttendanceTransition("check_in", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newAttendanceResponse(record))
}

// CheckOut closes today's record
//
//	@Summary	Check out
//	@Tags		attendance
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	AttendanceResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/attendance/checkout [post]
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	record, err := h.attendanceService.CheckOut(c.Request().Context(), actor)
	h.metrics.AttendanceTransition("check_out", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newAttendanceResponse(record))
}

// History returns the caller's records, newest first
//
//	@Summary	Attendance history
//	@Tags		attendance
//	@Produce	json
//	@Security	BearerAuth
//	@Param		from	query	string	false	"First day (YYYY-MM-DD)"
//	@Param		to		query	string	false	"Last day (YYYY-MM-DD)"
//	@Success	200		{array}	AttendanceResponse
//	@Router		/attendance/history [get]
func (h *AttendanceHandler) History(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	filter, err := historyFilter(c)
	if err != nil {
		return err
	}

	records, err := h.attendanceService.History(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newAttendanceResponses(records))
}

// ExportHistory streams the caller's records as a spreadsheet
//
//	@Summary	Export attendance history
//	@Tags		attendance
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Security	BearerAuth
//	@Param		from	query	string	false	"First day (YYYY-MM-DD)"
//	@Param		to		query	string	false	"Last day (YYYY-MM-DD)"
//	@Success	200
//	@Router		/attendance/history/export [get]
func (h *AttendanceHandler) ExportHistory(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	filter, err := historyFilter(c)
	if err != nil {
		return err
	}

	records, err := h.attendanceService.History(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	buf, err := export.Attendance(records)
	if err != nil {
		return fmt.Errorf("failed to export attendance: %w", err)
	}

	return attachment(c, fmt.Sprintf("attendance-%s.xlsx", actor.ID), buf.Bytes())
}

func historyFilter(c echo.Context) (ports.AttendanceFilter, error) {
	var filter ports.AttendanceFilter
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s date, expected YYYY-MM-DD", name))
		}
		*dst = &day
	}
	return filter, nil
}
