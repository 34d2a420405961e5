package handler

import (
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/query"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CategoryHandlerParams holds dependencies for CategoryHandler, injected by Fx.
type CategoryHandlerParams struct {
	fx.In

	CategoryUC usecase.CategoryUsecase
	Config     *config.Config
	Logger     *slog.Logger
}

type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
	planner    planner
	logger     *slog.Logger
}

// NewCategoryHandler is the constructor for CategoryHandler
func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{
		categoryUC: params.CategoryUC,
		planner:    newPlanner(params.Config),
		logger:     params.Logger,
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=1000"`
	Parent      string `json:"parent" validate:"omitempty,uuid"`
	Icon        string `json:"icon" validate:"max=256"`
	Featured    bool   `json:"featured"`
}

// UpdateCategoryRequest is a partial patch. An empty parent detaches the category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=64"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Parent      *string `json:"parent"`
	Icon        *string `json:"icon" validate:"omitempty,max=256"`
	Featured    *bool   `json:"featured"`
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	plan, err := h.planner.parse(c, query.Categories)
	if err != nil {
		return err
	}

	page, err := h.categoryUC.ListCategories(c.Request().Context(), plan)
	if err != nil {
		return err
	}

	return writeList(c, plan, page, newCategory)
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := &usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Featured:    req.Featured,
	}
	if req.Parent != "" {
		parent, err := parseUUID(req.Parent, "parent")
		if err != nil {
			return err
		}
		input.ParentID = &parent
	}

	category, err := h.categoryUC.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusCreated, "Category created", newCategory(category))
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.categoryUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, newCategoryDetail(detail))
}

// UpdateCategory handles PATCH /categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := &usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Featured:    req.Featured,
	}
	if req.Parent != nil {
		if *req.Parent == "" {
			input.ClearParent = true
		} else {
			var parent uuid.UUID
			if parent, err = parseUUID(*req.Parent, "parent"); err != nil {
				return err
			}
			input.ParentID = &parent
		}
	}

	category, err := h.categoryUC.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Category updated", newCategory(category))
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	category, err := h.categoryUC.DeleteCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Category deleted", newCategory(category))
}
