package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VDECKSHOP/backend/app/repositories"
	"github.com/VDECKSHOP/backend/app/services"
	"github.com/VDECKSHOP/backend/pkg/bind"
	"github.com/VDECKSHOP/backend/pkg/logger"
	"github.com/VDECKSHOP/backend/pkg/response"
)

const orderTimeout = 5 * time.Second

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// PlaceOrder handles POST /api/orders.
func (c *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req services.PlaceOrderRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.BadRequest(w, "Invalid request body.")
		return
	}
	if len(errs) > 0 {
		response.BadRequest(w, "All fields are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orderTimeout)
	defer cancel()

	order, err := c.service.PlaceOrder(ctx, req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	response.Created(w, "Order placed successfully!", "order", order)
}

// List handles GET /api/orders.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), orderTimeout)
	defer cancel()

	orders, err := c.service.ListOrders(ctx)
	if err != nil {
		logger.WithCtx(r.Context()).Error("list orders", "error", err)
		response.Internal(w, "Internal server error")
		return
	}
	response.JSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), orderTimeout)
	defer cancel()

	order, err := c.service.GetOrder(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.Message(w, http.StatusNotFound, "Order not found.")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("get order", "error", err)
		response.Internal(w, "Internal server error")
		return
	}
	response.JSON(w, http.StatusOK, order)
}

func (c *OrderController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr *services.ValidationError
		sErr *services.InsufficientStockError
		pErr *services.PersistenceError
	)

	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, vErr.Message)
	case errors.As(err, &sErr):
		response.Message(w, http.StatusConflict, "Insufficient stock for product "+sErr.ProductID+".")
	case errors.As(err, &pErr):
		logger.WithCtx(r.Context()).Error("order placement failed", "step", pErr.Step, "error", pErr.Err)
		response.Internal(w, "Failed to "+pErr.Step+".")
	default:
		logger.WithCtx(r.Context()).Error("order placement failed", "error", err)
		response.Internal(w, "Internal server error")
	}
}
