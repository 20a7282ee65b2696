package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	"stockroom/internal/respond"
)

type CatalogService[T any, R any] interface {
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, req R) (*T, error)
	Update(ctx context.Context, id int64, req R) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogController exposes list/get/create/update/delete for one kind of
// reference record under basePath.
type CatalogController[T any, R any, D any] struct {
	basePath string
	service  CatalogService[T, R]
	toDTO    func(T) D
	logger   *zap.Logger
}

func NewCatalogController[T any, R any, D any](
	basePath string,
	service CatalogService[T, R],
	toDTO func(T) D,
	logger *zap.Logger,
) *CatalogController[T, R, D] {
	return &CatalogController[T, R, D]{
		basePath: basePath,
		service:  service,
		toDTO:    toDTO,
		logger:   logger,
	}
}

func (c *CatalogController[T, R, D]) RegisterRoutes(r chi.Router) {
	r.Get(c.basePath, c.List)
	r.Post(c.basePath, c.Create)
	r.Get(c.basePath+"/{id}", c.Get)
	r.Put(c.basePath+"/{id}", c.Update)
	r.Delete(c.basePath+"/{id}", c.Delete)
}

func (c *CatalogController[T, R, D]) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	records, err := c.service.List(r.Context())
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	out := make([]D, len(records))
	for i, rec := range records {
		out[i] = c.toDTO(rec)
	}
	respond.JSON(w, logger, http.StatusOK, out)
}

func (c *CatalogController[T, R, D]) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	rec, err := c.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, c.toDTO(*rec))
}

func (c *CatalogController[T, R, D]) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req R
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	rec, err := c.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusCreated, c.toDTO(*rec))
}

func (c *CatalogController[T, R, D]) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	var req R
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	rec, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, c.toDTO(*rec))
}

func (c *CatalogController[T, R, D]) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, dto.SuccessResponse{Success: true})
}
