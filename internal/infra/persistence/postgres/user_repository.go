// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by email. Emails are compared lowercased.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email or username already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.Email = userM.Email
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// List returns one page of users and the filtered total.
func (repo *userRepository) List(ctx context.Context, plan *query.Plan) ([]*entity.User, int64, error) {
	rows, total, err := listModels[model.UserModel](ctx, repo.db, plan, listScopes{})
	if err != nil {
		return nil, 0, err
	}

	users := make([]*entity.User, len(rows))
	for i, row := range rows {
		users[i] = toUserDomain(row)
	}

	return users, total, nil
}

// Delete removes a user and returns the deleted snapshot.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	db := repo.db.WithContext(ctx)
	if err := db.Where("user_id = ?", id).Delete(&model.StoreWorkerModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to unlink worker")
	}
	if err := db.Where("id = ?", id).Delete(&model.UserModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to delete user")
	}

	return user, nil
}

// DeleteAll removes every user.
func (repo *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	db := repo.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.StoreWorkerModel{}).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to unlink workers")
	}

	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.UserModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete users")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Role:         entity.Role(data.Role),
		AccountType:  entity.AccountType(data.AccountType),
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Phones:       data.Phones,
		Avatar:       toImage(data.AvatarID, data.AvatarURL),
		City:         data.City,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:           data.ID,
		Email:        strings.ToLower(strings.TrimSpace(data.Email)),
		Username:     strings.TrimSpace(data.Username),
		PasswordHash: data.PasswordHash,
		Role:         data.Role.String(),
		AccountType:  string(data.AccountType),
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Phones:       data.Phones,
		City:         data.City,
	}
	if data.Avatar != nil {
		userM.AvatarID = data.Avatar.ID
		userM.AvatarURL = data.Avatar.URL
	}

	return userM
}

func toImage(id, url string) *entity.Image {
	if id == "" && url == "" {
		return nil
	}

	return &entity.Image{ID: id, URL: url}
}
