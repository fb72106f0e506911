package services

import (
	"context"
	"errors"

	"github.com/VDECKSHOP/backend/app/models"
	"github.com/VDECKSHOP/backend/pkg/cache"
	"github.com/VDECKSHOP/backend/pkg/logger"
	"github.com/VDECKSHOP/backend/pkg/metrics"
	"github.com/VDECKSHOP/backend/pkg/validate"
	"github.com/VDECKSHOP/backend/pkg/workerpool"
)

// Inventory is the slice of the product store the placement path needs.
type Inventory interface {
	// DecrementStock atomically decrements one product's stock when at
	// least qty units remain. Used by the guarded path.
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)

	// BatchDecrement applies one unconditional decrement per item in a
	// single batched request, without cross-item atomicity. Used by the
	// permissive path.
	BatchDecrement(ctx context.Context, items []models.OrderItem) (int64, error)

	// BatchIncrement reverses decrements, as compensation.
	BatchIncrement(ctx context.Context, items []models.OrderItem) error
}

// OrderStore persists and reads order documents.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (models.Order, error)
}

// TxRunner runs a function inside a store transaction. May be nil when the
// deployment has no transaction support.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PlaceOrderRequest is the decoded order form. Items accepts either a JSON
// array or a JSON-encoded string (see models.OrderItems).
type PlaceOrderRequest struct {
	Fullname     string            `json:"fullname"     validate:"required"`
	Gcash        string            `json:"gcash"        validate:"required"`
	Address      string            `json:"address"      validate:"required"`
	Items        models.OrderItems `json:"items"        validate:"required"`
	Total        float64           `json:"total"        validate:"required,gt=0"`
	PaymentProof string            `json:"paymentProof" validate:"required"`
}

// OrderService implements order placement: validate, deduct stock, persist.
type OrderService struct {
	products Inventory
	orders   OrderStore
	tx       TxRunner

	// guardStock selects the decrement policy. True: per-item conditional
	// decrements inside one transaction, whole order aborts when any item
	// is short. False: legacy single unconditional bulk decrement, stock
	// may go negative, order insert is not atomic with it.
	guardStock bool

	pool *workerpool.Pool
}

func NewOrderService(products Inventory, orders OrderStore, tx TxRunner, guardStock bool) *OrderService {
	return &OrderService{
		products:   products,
		orders:     orders,
		tx:         tx,
		guardStock: guardStock && tx != nil,
	}
}

// WithPool attaches a worker pool for post-placement tasks.
func (s *OrderService) WithPool(p *workerpool.Pool) *OrderService {
	s.pool = p
	return s
}

// PlaceOrder validates req, deducts stock for each line item and persists
// the order. Two identical calls place two orders and deduct stock twice;
// placement is deliberately not idempotent.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (models.Order, error) {
	if err := validateRequest(req); err != nil {
		metrics.OrdersPlaced.WithLabelValues("validation_failed").Inc()
		return models.Order{}, err
	}

	order := models.Order{
		Fullname:     req.Fullname,
		Gcash:        req.Gcash,
		Address:      req.Address,
		Items:        req.Items,
		Total:        req.Total,
		PaymentProof: req.PaymentProof,
	}

	var err error
	if s.guardStock {
		err = s.placeGuarded(ctx, &order)
	} else {
		err = s.placePermissive(ctx, &order)
	}
	if err != nil {
		var short *InsufficientStockError
		if errors.As(err, &short) {
			metrics.OrdersPlaced.WithLabelValues("insufficient_stock").Inc()
		} else {
			metrics.OrdersPlaced.WithLabelValues("error").Inc()
		}
		return models.Order{}, err
	}

	metrics.OrdersPlaced.WithLabelValues("placed").Inc()
	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID,
		"items", len(order.Items),
		"total", order.Total,
	)

	s.afterPlace()
	return order, nil
}

// placeGuarded runs per-item conditional decrements and the order insert
// in one transaction. Stock never goes negative and a failed insert rolls
// the decrements back.
func (s *OrderService) placeGuarded(ctx context.Context, order *models.Order) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, item := range order.Items {
			applied, err := s.products.DecrementStock(txCtx, item.ProductID, item.Quantity)
			if err != nil {
				return &PersistenceError{Step: StepDecrementStock, Err: err}
			}
			if !applied {
				metrics.StockDecrements.WithLabelValues("shorted").Inc()
				return &InsufficientStockError{ProductID: item.ProductID, Quantity: item.Quantity}
			}
			metrics.StockDecrements.WithLabelValues("applied").Inc()
		}

		if err := s.orders.Create(txCtx, order); err != nil {
			return &PersistenceError{Step: StepSaveOrder, Err: err}
		}
		return nil
	})
}

// placePermissive reproduces the legacy behavior: one unconditional bulk
// decrement, then the order insert. The two steps are not atomic. When the
// insert fails a compensating increment is attempted, best effort.
func (s *OrderService) placePermissive(ctx context.Context, order *models.Order) error {
	matched, err := s.products.BatchDecrement(ctx, order.Items)
	if err != nil {
		return &PersistenceError{Step: StepDecrementStock, Err: err}
	}
	metrics.StockDecrements.WithLabelValues("applied").Add(float64(matched))
	if int(matched) < len(order.Items) {
		logger.WithCtx(ctx).Warn("bulk decrement matched fewer products than ordered",
			"matched", matched, "items", len(order.Items))
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if compErr := s.products.BatchIncrement(ctx, order.Items); compErr != nil {
			logger.WithCtx(ctx).Error("compensating stock increment failed", "error", compErr)
		}
		return &PersistenceError{Step: StepSaveOrder, Err: err}
	}
	return nil
}

// ListOrders returns all placed orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

// GetOrder returns one order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// afterPlace schedules post-placement bookkeeping off the request path.
// The cached product listing is stale once stock changed.
func (s *OrderService) afterPlace() {
	invalidate := func() { _ = cache.Del(ProductsCacheKey) }
	if s.pool == nil {
		invalidate()
		return
	}
	if err := s.pool.Submit(invalidate); err != nil {
		// pool saturated or closed, do it inline, it is one DEL
		invalidate()
	}
}

func validateRequest(req PlaceOrderRequest) error {
	if errs := validate.Struct(&req); validate.HasErrors(errs) {
		return &ValidationError{Message: "All fields are required.", Fields: errs}
	}

	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return &ValidationError{
				Message: "Invalid order items.",
				Fields:  map[string]string{"items": "each item needs a product id and a positive quantity"},
			}
		}
	}
	return nil
}
