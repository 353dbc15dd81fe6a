package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// WFHHandler handles work-from-home requests
type WFHHandler struct {
	wfhService ports.WFHService
	logger     *logger.Logger
}

// NewWFHHandler creates a new WFH handler
func NewWFHHandler(wfhService ports.WFHService, logger *logger.Logger) *WFHHandler {
	return &WFHHandler{
		wfhService: wfhService,
		logger:     logger,
	}
}

// ListRequests returns the requests visible to the caller
//
//	@Summary	List WFH requests
//	@Tags		wfh
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	WFHResponse
//	@Router		/wfh [get]
func (h *WFHHandler) ListRequests(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	requests, err := h.wfhService.ListRequests(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newWFHResponses(requests))
}

// CreateRequest files a pending request for the caller
//
//	@Summary	Request work from home
//	@Tags		wfh
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		ports.CreateWFHRequest	true	"Request"
//	@Success	200		{object}	WFHResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/wfh [post]
func (h *WFHHandler) CreateRequest(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req ports.CreateWFHRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	request, err := h.wfhService.CreateRequest(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newWFHResponse(request))
}

// PendingApprovals is a placeholder that always returns an empty list
//
//	@Summary	Pending approvals
//	@Tags		wfh
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	WFHResponse
//	@Router		/approvals [get]
func (h *WFHHandler) PendingApprovals(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	requests, err := h.wfhService.PendingApprovals(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newWFHResponses(requests))
}
