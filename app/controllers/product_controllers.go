package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VDECKSHOP/backend/app/models"
	"github.com/VDECKSHOP/backend/app/repositories"
	"github.com/VDECKSHOP/backend/app/services"
	"github.com/VDECKSHOP/backend/pkg/bind"
	"github.com/VDECKSHOP/backend/pkg/logger"
	"github.com/VDECKSHOP/backend/pkg/response"
)

const productTimeout = 3 * time.Second

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// List handles GET /api/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), productTimeout)
	defer cancel()

	products, err := c.service.List(ctx)
	if err != nil {
		logger.WithCtx(r.Context()).Error("list products", "error", err)
		response.Internal(w, "Internal server error")
		return
	}
	response.JSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), productTimeout)
	defer cancel()

	product, err := c.service.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.Message(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("get product", "error", err)
		response.Internal(w, "Internal server error")
		return
	}
	response.JSON(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if _, err := bind.JSON(r, &product); err != nil {
		response.BadRequest(w, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productTimeout)
	defer cancel()

	if err := c.service.Create(ctx, &product); err != nil {
		c.writeError(w, r, err)
		return
	}
	response.Created(w, "Product created successfully!", "product", product)
}

// Update handles PUT /api/products/{id}.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if _, err := bind.JSON(r, &product); err != nil {
		response.BadRequest(w, "Invalid request body.")
		return
	}
	product.ID = chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), productTimeout)
	defer cancel()

	if err := c.service.Update(ctx, &product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.Message(w, http.StatusNotFound, "Product not found.")
			return
		}
		c.writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully!",
		"product": product,
	})
}

// Delete handles DELETE /api/products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), productTimeout)
	defer cancel()

	if err := c.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.Message(w, http.StatusNotFound, "Product not found.")
			return
		}
		logger.WithCtx(r.Context()).Error("delete product", "error", err)
		response.Internal(w, "Internal server error")
		return
	}
	response.Message(w, http.StatusOK, "Product deleted successfully!")
}

func (c *ProductController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		response.BadRequest(w, vErr.Message)
		return
	}
	logger.WithCtx(r.Context()).Error("product write failed", "error", err)
	response.Internal(w, "Internal server error")
}
