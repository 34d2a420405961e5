package service

import (
	"context"

	"storefront/internal/domain/entity"
)

// MediaUploader publishes staged local files to the media host.
type MediaUploader interface {
	// Upload publishes the file at localPath under folder and returns its public
	// image. The local file is removed whether or not the upload succeeds.
	Upload(ctx context.Context, localPath, folder string) (*entity.Image, error)

	// Delete removes a published object. Missing objects are not an error.
	Delete(ctx context.Context, id string) error
}
