// Package media publishes uploaded images to a gocloud.dev blob bucket.
package media

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

type blobUploader struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// UploaderParams holds dependencies for the media uploader, injected by Fx
type UploaderParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobUploader opens media.bucketUrl and closes it on shutdown.
func NewBlobUploader(params UploaderParams) (service.MediaUploader, error) {
	bucket, err := blob.OpenBucket(params.Ctx, params.Config.Media.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open media bucket %s", params.Config.Media.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	params.Logger.Info("Media bucket opened", slog.String("bucket_url", params.Config.Media.BucketURL))

	return NewUploader(bucket, params.Config.Media.PublicBaseURL, params.Logger), nil
}

// NewUploader wraps an already opened bucket.
func NewUploader(bucket *blob.Bucket, publicBaseURL string, logger *slog.Logger) service.MediaUploader {
	return &blobUploader{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Upload stores the file under folder/<uuid><ext>. Every upload gets its own
// object, so deleting one record's image never touches another record's copy.
// The sha256 of the content is kept in the object metadata.
func (u *blobUploader) Upload(ctx context.Context, localPath, folder string) (*entity.Image, error) {
	defer os.Remove(localPath)

	start := time.Now()

	sum, size, err := util.FileDigest(localPath)
	if err != nil {
		return nil, err
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))

	file, err := os.Open(localPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	writer, err := u.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType:  util.ContentType(localPath),
		CacheControl: "public, max-age=31536000, immutable",
		Metadata:     map[string]string{"sha256": sum},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open writer for %s", key)
	}

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()

		return nil, errors.Wrapf(err, "write %s", key)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrapf(err, "commit %s", key)
	}

	u.logger.Debug("Media uploaded",
		slog.String("key", key),
		slog.String("size", util.FormatBytes(size)),
		slog.String("took", util.FormatDuration(time.Since(start))),
	)

	return &entity.Image{ID: key, URL: u.publicURL(key)}, nil
}

// Delete removes a published object. Missing objects are ignored.
func (u *blobUploader) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := u.bucket.Delete(ctx, id); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "delete %s", id)
	}

	return nil
}

func (u *blobUploader) publicURL(key string) string {
	if u.publicBaseURL == "" {
		return "/" + key
	}

	return u.publicBaseURL + "/" + key
}
