package media

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"storefront/config"

	"github.com/pkg/errors"
)

// Stager copies multipart uploads into the scratch directory so the uploader
// can publish them from disk.
type Stager struct {
	dir string
}

// NewStager builds a Stager on media.scratchDir.
func NewStager(cfg *config.Config) *Stager {
	dir := os.TempDir()
	if cfg.Media != nil && cfg.Media.ScratchDir != "" {
		dir = cfg.Media.ScratchDir
	}

	return &Stager{dir: dir}
}

// Stage writes the uploaded file to a new scratch file and returns its path.
// The extension of the original file name is kept.
func (s *Stager) Stage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrapf(err, "open upload %s", fh.Filename)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", errors.WithStack(err)
	}

	dst, err := os.CreateTemp(s.dir, "upload-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", errors.WithStack(err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())

		return "", errors.Wrapf(err, "stage upload %s", fh.Filename)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())

		return "", errors.WithStack(err)
	}

	return dst.Name(), nil
}

// StageAll stages every file. On failure the files staged so far are removed.
func (s *Stager) StageAll(files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		p, err := s.Stage(fh)
		if err != nil {
			Cleanup(paths...)

			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}

// Cleanup removes staged files that were never handed to the uploader.
func Cleanup(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
