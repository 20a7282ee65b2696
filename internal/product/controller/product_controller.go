package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	"stockroom/internal/respond"
)

type ProductService interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, req dto.ProductRequest) (*domain.Product, error)
	Update(ctx context.Context, id int64, req dto.ProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductController struct {
	service ProductService
	logger  *zap.Logger
}

func NewProductController(service ProductService, logger *zap.Logger) *ProductController {
	return &ProductController{
		service: service,
		logger:  logger,
	}
}

func (c *ProductController) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/products", c.List)
	r.Post("/api/v1/products", c.Create)
	r.Get("/api/v1/products/{productId}", c.Get)
	r.Put("/api/v1/products/{productId}", c.Update)
	r.Delete("/api/v1/products/{productId}", c.Delete)
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter := domain.ProductFilter{Search: r.URL.Query().Get("search")}
	var err error
	if filter.CategoryID, err = respond.QueryID(r, "category_id"); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	if filter.SupplierID, err = respond.QueryID(r, "supplier_id"); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	products, err := c.service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	out := make([]dto.ProductDTO, len(products))
	for i, p := range products {
		out[i] = dto.NewProductDTO(p)
	}
	respond.JSON(w, logger, http.StatusOK, out)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "productId")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, dto.NewProductDTO(*p))
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	p, err := c.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusCreated, dto.NewProductDTO(*p))
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "productId")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	var req dto.ProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	p, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, dto.NewProductDTO(*p))
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "productId")
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
