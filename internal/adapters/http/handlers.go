package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles user login
//
//	@Summary	Log in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ports.LoginRequest	true	"Credentials"
//	@Success	200		{object}	LoginResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.LogSecurityEvent("login_failed", "", c.RealIP(), map[string]interface{}{
			"email": req.Email,
		})
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: response.Token,
		User:  newUserResponse(response.User),
	})
}

// Register handles account creation
//
//	@Summary	Register a new account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ports.RegisterRequest	true	"Account"
//	@Success	200		{object}	UserResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}

// UserHandler handles user and department requests
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile returns the authenticated user
//
//	@Summary	Current user profile
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	UserResponse
//	@Router		/user/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newUserResponse(profile))
}

// ListDepartments returns every department
//
//	@Summary	List departments
//	@Tags		departments
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	DepartmentResponse
//	@Router		/departments [get]
func (h *UserHandler) ListDepartments(c echo.Context) error {
	departments, err := h.userService.ListDepartments(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newDepartmentResponses(departments))
}

// ListDepartmentUsers returns the members of a department
//
//	@Summary	List department members
//	@Tags		departments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Department ID"
//	@Success	200	{array}	UserResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/departments/{id}/users [get]
func (h *UserHandler) ListDepartmentUsers(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	departmentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	users, err := h.userService.ListDepartmentUsers(c.Request().Context(), actor, departmentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newUserResponses(users))
}
