package service

import (
	"context"

	"go.uber.org/zap"
)

// Store is the persistence contract shared by categories, suppliers and
// customers.
type Store[T any] interface {
	FindByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, v T) (int64, error)
	Update(ctx context.Context, v T) error
	Delete(ctx context.Context, id int64) error
}

type Request interface {
	Validate() error
}

// CatalogService manages one kind of reference record. Writes are single
// statements, so no unit of work is involved.
type CatalogService[T any, R Request] struct {
	entity  string
	store   Store[T]
	convert func(R) T
	withID  func(T, int64) T
	logger  *zap.Logger
}

func NewCatalogService[T any, R Request](
	entity string,
	store Store[T],
	convert func(R) T,
	withID func(T, int64) T,
	logger *zap.Logger,
) *CatalogService[T, R] {
	return &CatalogService[T, R]{
		entity:  entity,
		store:   store,
		convert: convert,
		withID:  withID,
		logger:  logger,
	}
}

func (s *CatalogService[T, R]) Get(ctx context.Context, id int64) (*T, error) {
	return s.store.FindByID(ctx, id)
}

func (s *CatalogService[T, R]) List(ctx context.Context) ([]T, error) {
	return s.store.List(ctx)
}

func (s *CatalogService[T, R]) Create(ctx context.Context, req R) (*T, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id, err := s.store.Insert(ctx, s.withID(s.convert(req), 0))
	if err != nil {
		return nil, err
	}

	s.logger.Info("record created", zap.String("entity", s.entity), zap.Int64("id", id))
	return s.store.FindByID(ctx, id)
}

func (s *CatalogService[T, R]) Update(ctx context.Context, id int64, req R) (*T, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, s.withID(s.convert(req), id)); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

func (s *CatalogService[T, R]) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("record deleted", zap.String("entity", s.entity), zap.Int64("id", id))
	return nil
}
