package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/domain/policy"
)

// UserContextKey is the echo context key holding the authenticated *entities.User
const UserContextKey = "user"

// SetCurrentUser stores the authenticated user on the request context
func SetCurrentUser(c echo.Context, user *entities.User) {
	c.Set(UserContextKey, user)
}

// CurrentUser returns the authenticated user set by the auth middleware
func CurrentUser(c echo.Context) (*entities.User, error) {
	user, ok := c.Get(UserContextKey).(*entities.User)
	if !ok || user == nil {
		return nil, entities.ErrUnauthenticated
	}
	return user, nil
}

func currentActor(c echo.Context) (policy.Actor, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return policy.Actor{}, err
	}
	return policy.ActorFromUser(user), nil
}

func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
// Decoding failures are 400, validator failures are returned unchanged.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}
	return c.Validate(req)
}
