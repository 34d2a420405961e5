// Package handler holds the HTTP handlers of the REST API.
package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/query"
	"storefront/internal/errors"
	"storefront/internal/infra/media"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	return parseUUID(c.Param("id"), "id")
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domainerrors.ErrBadRequest.WithDetailsf("%s is not a valid id", name)
	}

	return id, nil
}

func parseUUIDs(raw []string, name string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for i, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetailsf("%s[%d] is not a valid id", name, i)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// bind decodes the request body (JSON or form) into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if msg, ok := he.Message.(string); ok {
				return domainerrors.ErrBadRequest.WithDetails(msg)
			}
		}

		return domainerrors.ErrBadRequest.WithDetails("malformed request body")
	}

	return c.Validate(req)
}

// planner parses list query strings against a schema with the configured page limits.
type planner struct {
	defaultLimit int
	maxLimit     int
}

func newPlanner(cfg *config.Config) planner {
	return planner{defaultLimit: cfg.Query.DefaultLimit, maxLimit: cfg.Query.MaxLimit}
}

func (p planner) parse(c echo.Context, schema *query.Schema, ignore ...string) (*query.Plan, error) {
	plan, err := query.Parse(c.QueryParams(), schema, query.Options{
		DefaultLimit: p.defaultLimit,
		MaxLimit:     p.maxLimit,
		Ignore:       ignore,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return plan, nil
}

// writeList renders a page through its response shape and the plan's projection.
func writeList[T, U any](c echo.Context, plan *query.Plan, page *query.Page[T], present func(T) U) error {
	out := query.MapPage(page, present)

	items, err := query.Project(out.Items, plan.Select)
	if err != nil {
		return err
	}

	return response.List(c, out, items)
}

// stageFiles copies the files of a multipart field to scratch storage. Callers
// must defer media.Cleanup on the returned paths. Non-multipart requests carry
// no files.
func stageFiles(c echo.Context, stager *media.Stager, field string, limit int) ([]string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, domainerrors.ErrBadRequest.WithDetails("malformed multipart form")
	}

	files := form.File[field]
	if limit > 0 && len(files) > limit {
		return nil, domainerrors.ErrTooManyImages.WithDetailsf("%s accepts at most %d files", field, limit)
	}

	return stageAll(stager, files)
}

// stageOne stages at most one file of a multipart field.
func stageOne(c echo.Context, stager *media.Stager, field string) (string, error) {
	paths, err := stageFiles(c, stager, field, 1)
	if err != nil || len(paths) == 0 {
		return "", err
	}

	return paths[0], nil
}

func stageAll(stager *media.Stager, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	paths, err := stager.StageAll(files)
	if err != nil {
		return nil, domainerrors.ErrMediaUploadFailed.WithDetails(err.Error())
	}

	return paths, nil
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
