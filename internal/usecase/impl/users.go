package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

const avatarFolder = "avatars"

// userCreator is the single path by which accounts are created: signup,
// store workers and the operator CLI all go through it.
type userCreator struct {
	hasher   service.PasswordHasher
	uploader service.MediaUploader
	logger   *slog.Logger
}

func (c *userCreator) create(ctx context.Context, repo repository.UserRepository, input *usecase.NewUserInput) (*entity.User, error) {
	accountType := input.AccountType.Normalize()
	role, ok := entity.DeriveRole(accountType)
	if !ok {
		return nil, domainerrors.ErrInvalidAccountType.WithDetailsf("unknown account type %q", input.AccountType)
	}

	hash, err := c.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	avatar, err := uploadImage(ctx, c.uploader, input.AvatarPath, avatarFolder)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        normalizeEmail(input.Email),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hash,
		Role:         role,
		AccountType:  accountType,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phones:       compact(input.Phones),
		Avatar:       avatar,
		City:         input.City,
	}

	if err := repo.Create(ctx, user); err != nil {
		discardImages(ctx, c.uploader, c.logger, avatar)

		return nil, err
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// compact drops blank entries.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
