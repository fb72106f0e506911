package services

import (
	"context"
	"time"

	"github.com/VDECKSHOP/backend/app/models"
	"github.com/VDECKSHOP/backend/pkg/cache"
	"github.com/VDECKSHOP/backend/pkg/validate"
)

// ProductsCacheKey holds the cached product listing in Redis.
const ProductsCacheKey = "products:all"

const productsCacheTTL = 30 * time.Second

// ProductStore is the catalogue side of the product repository.
type ProductStore interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductService manages the catalogue and keeps the listing cache fresh.
type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

// List returns all products, served from the Redis cache when warm.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(ProductsCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	_ = cache.Set(ProductsCacheKey, products, productsCacheTTL)
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates and inserts a product, then drops the listing cache.
func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if errs := validate.Struct(p); validate.HasErrors(errs) {
		return &ValidationError{Message: "Invalid product.", Fields: errs}
	}

	if err := s.store.Create(ctx, p); err != nil {
		return &PersistenceError{Step: "save product", Err: err}
	}
	_ = cache.Del(ProductsCacheKey)
	return nil
}

func (s *ProductService) Update(ctx context.Context, p *models.Product) error {
	if errs := validate.Struct(p); validate.HasErrors(errs) {
		return &ValidationError{Message: "Invalid product.", Fields: errs}
	}

	if err := s.store.Update(ctx, p); err != nil {
		return err
	}
	_ = cache.Del(ProductsCacheKey)
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	_ = cache.Del(ProductsCacheKey)
	return nil
}
