package handler

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/media"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Stager *media.Stager
	Logger *slog.Logger
}

// AuthHandler serves signup, signin and the current user.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	stager *media.Stager
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		stager: params.Stager,
		logger: params.Logger,
	}
}

// SignupRequest is a new account, sent as JSON or as a multipart form with an avatar file.
type SignupRequest struct {
	Email     string   `json:"email" form:"email" validate:"required,email"`
	Username  string   `json:"username" form:"username" validate:"required,min=3,max=64"`
	Password  string   `json:"password" form:"password" validate:"required,min=6,max=72"`
	FirstName string   `json:"first_name" form:"first_name" validate:"max=64"`
	LastName  string   `json:"last_name" form:"last_name" validate:"max=64"`
	Phones    []string `json:"phones" form:"phones" validate:"max=5,dive,min=5,max=20"`
	City      string   `json:"city" form:"city" validate:"max=64"`
}

func (r *SignupRequest) toInput(accountType entity.AccountType, avatarPath string) *usecase.NewUserInput {
	return &usecase.NewUserInput{
		AccountType: accountType,
		Email:       r.Email,
		Username:    r.Username,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phones:      r.Phones,
		City:        r.City,
		AvatarPath:  avatarPath,
	}
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SigninResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

// Signup handles POST /auth/signup?account_type=<t>
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	avatar, err := stageOne(c, h.stager, "avatar")
	if err != nil {
		return err
	}
	defer media.Cleanup(avatar)

	accountType := entity.AccountType(c.QueryParam("account_type"))
	user, err := h.authUC.Signup(c.Request().Context(), req.toInput(accountType, avatar))
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusCreated, "Account created", newUser(user))
}

// Signin handles POST /auth/signin
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.Signin(c.Request().Context(), &usecase.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, SigninResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
		User:      newUser(out.User),
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	user, err := h.authUC.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, newUser(user))
}
