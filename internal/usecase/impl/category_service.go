package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type categoryService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	Logger       *slog.Logger
}

func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		logger:       params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *categoryService) CreateCategory(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	if err := srv.checkParent(ctx, uuid.Nil, input.ParentID); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ParentID:    input.ParentID,
		Icon:        input.Icon,
		Featured:    input.Featured,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Category created", slog.String("category_id", category.ID.String()))

	return category, nil
}

// GetCategory returns the category with its direct subcategories.
func (srv *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*usecase.CategoryDetail, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound, id)
	}

	children, err := srv.categoryRepo.Children(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load subcategories")
	}

	return &usecase.CategoryDetail{Category: category, Subcategories: children}, nil
}

func (srv *categoryService) ListCategories(ctx context.Context, plan *query.Plan) (*query.Page[*entity.Category], error) {
	categories, total, err := srv.categoryRepo.List(ctx, plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return query.NewPage(categories, total, plan), nil
}

func (srv *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input *usecase.UpdateCategoryInput) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound, id)
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.Featured != nil {
		category.Featured = *input.Featured
	}
	switch {
	case input.ClearParent:
		category.ParentID = nil
	case input.ParentID != nil:
		if err := srv.checkParent(ctx, id, input.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
	}

	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, notFound(err, repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound, id)
	}

	return srv.categoryRepo.FindByID(ctx, id)
}

// DeleteCategory removes a leaf category and its product links.
func (srv *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var deleted *entity.Category
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		repo := factory.NewCategoryRepository()

		children, err := repo.Children(ctx, id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return domainerrors.ErrCategoryHasChildren.WithDetailsf("%d subcategories", len(children))
		}

		deleted, err = repo.Delete(ctx, id)

		return err
	})
	if err != nil {
		return nil, notFound(err, repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound, id)
	}

	srv.log(ctx).Info("Category deleted", slog.String("category_id", id.String()))

	return deleted, nil
}

// checkParent requires the parent to exist and not to be the category itself
// or one of its descendants.
func (srv *categoryService) checkParent(ctx context.Context, self uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	for cursor := parentID; cursor != nil; {
		if *cursor == self {
			return domainerrors.ErrValidationFailed.WithDetails("a category cannot be its own ancestor")
		}

		parent, err := srv.categoryRepo.FindByID(ctx, *cursor)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrValidationFailed.WithDetailsf("parent category %s does not exist", *cursor)
		}
		if err != nil {
			return errors.Wrap(err, "failed to load parent category")
		}
		if self == uuid.Nil {
			return nil
		}
		cursor = parent.ParentID
	}

	return nil
}
