package handler

import (
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/query"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Config *config.Config
	Logger *slog.Logger
}

// UserHandler serves user administration.
type UserHandler struct {
	userUC  usecase.UserUsecase
	planner planner
	logger  *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC:  params.UserUC,
		planner: newPlanner(params.Config),
		logger:  params.Logger,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c echo.Context) error {
	plan, err := h.planner.parse(c, query.Users)
	if err != nil {
		return err
	}

	page, err := h.userUC.ListUsers(c.Request().Context(), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newUser)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.userUC.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "User deleted", newUser(user))
}

// DeleteAllUsers handles DELETE /users
func (h *UserHandler) DeleteAllUsers(c echo.Context) error {
	deleted, err := h.userUC.DeleteAllUsers(c.Request().Context())
	if err != nil {
		return err
	}

	h.logger.Warn("All users deleted", slog.Int64("count", deleted))

	return response.Message(c, http.StatusOK, "Users deleted", map[string]int64{"deleted": deleted})
}
