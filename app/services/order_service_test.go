package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VDECKSHOP/backend/app/models"
	"github.com/VDECKSHOP/backend/app/services"
)

// fakeInventory is an in-memory product stock table with the same
// conditional/unconditional decrement split as the mongo-backed store.
type fakeInventory struct {
	mu    sync.Mutex
	stock map[string]int

	decrementErr error
}

func newFakeInventory(stock map[string]int) *fakeInventory {
	return &fakeInventory{stock: stock}
}

func (f *fakeInventory) DecrementStock(_ context.Context, productID string, qty int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decrementErr != nil {
		return false, f.decrementErr
	}
	if f.stock[productID] < qty {
		return false, nil
	}
	f.stock[productID] -= qty
	return true, nil
}

func (f *fakeInventory) BatchDecrement(_ context.Context, items []models.OrderItem) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decrementErr != nil {
		return 0, f.decrementErr
	}
	var matched int64
	for _, item := range items {
		if _, ok := f.stock[item.ProductID]; !ok {
			continue
		}
		f.stock[item.ProductID] -= item.Quantity
		matched++
	}
	return matched, nil
}

func (f *fakeInventory) BatchIncrement(_ context.Context, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		if _, ok := f.stock[item.ProductID]; ok {
			f.stock[item.ProductID] += item.Quantity
		}
	}
	return nil
}

func (f *fakeInventory) stockOf(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[id]
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    []models.Order
	createErr error
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = fmt.Sprintf("order-%d", len(f.orders)+1)
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeOrders) FindAll(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, errors.New("not found")
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// fakeTx snapshots the inventory before fn and restores it when fn errors,
// mirroring what an aborted store transaction does to the decrements.
type fakeTx struct {
	inv *fakeInventory
}

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.inv.mu.Lock()
	snapshot := make(map[string]int, len(t.inv.stock))
	for k, v := range t.inv.stock {
		snapshot[k] = v
	}
	t.inv.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.inv.mu.Lock()
		t.inv.stock = snapshot
		t.inv.mu.Unlock()
		return err
	}
	return nil
}

func validRequest() services.PlaceOrderRequest {
	return services.PlaceOrderRequest{
		Fullname:     "Juan Dela Cruz",
		Gcash:        "09171234567",
		Address:      "123 Mabini St, Manila",
		Items:        models.OrderItems{{ProductID: "p1", Quantity: 3}},
		Total:        1500,
		PaymentProof: "/uploads/1700000000000-proof.jpg",
	}
}

func guardedService(inv *fakeInventory, orders *fakeOrders) *services.OrderService {
	return services.NewOrderService(inv, orders, &fakeTx{inv: inv}, true)
}

func permissiveService(inv *fakeInventory, orders *fakeOrders) *services.OrderService {
	return services.NewOrderService(inv, orders, nil, false)
}

func TestPlaceOrder_Success(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5})
	orders := &fakeOrders{}
	svc := guardedService(inv, orders)

	order, err := svc.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "Juan Dela Cruz", order.Fullname)
	assert.Equal(t, models.OrderItems{{ProductID: "p1", Quantity: 3}}, order.Items)
	assert.Equal(t, 2, inv.stockOf("p1"))
	assert.Equal(t, 1, orders.count())
}

func TestPlaceOrder_MissingFields(t *testing.T) {
	cases := map[string]func(*services.PlaceOrderRequest){
		"fullname":     func(r *services.PlaceOrderRequest) { r.Fullname = "" },
		"gcash":        func(r *services.PlaceOrderRequest) { r.Gcash = "" },
		"address":      func(r *services.PlaceOrderRequest) { r.Address = "" },
		"items":        func(r *services.PlaceOrderRequest) { r.Items = nil },
		"total":        func(r *services.PlaceOrderRequest) { r.Total = 0 },
		"paymentProof": func(r *services.PlaceOrderRequest) { r.PaymentProof = "" },
	}

	for field, blank := range cases {
		t.Run(field, func(t *testing.T) {
			inv := newFakeInventory(map[string]int{"p1": 5})
			orders := &fakeOrders{}
			svc := guardedService(inv, orders)

			req := validRequest()
			blank(&req)

			_, err := svc.PlaceOrder(context.Background(), req)

			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "All fields are required.", verr.Message)
			assert.Equal(t, 5, inv.stockOf("p1"), "no stock mutation on rejected request")
			assert.Zero(t, orders.count())
		})
	}
}

func TestPlaceOrder_InvalidItems(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5})
	orders := &fakeOrders{}
	svc := guardedService(inv, orders)

	req := validRequest()
	req.Items = models.OrderItems{{ProductID: "", Quantity: 1}}

	_, err := svc.PlaceOrder(context.Background(), req)

	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid order items.", verr.Message)
	assert.Zero(t, orders.count())
}

func TestPlaceOrder_ItemsFromEncodedString(t *testing.T) {
	// Decoding the request body with items as a JSON-encoded string must
	// place the same order as the structured-array form.
	body := `{
		"fullname": "Juan Dela Cruz",
		"gcash": "09171234567",
		"address": "123 Mabini St, Manila",
		"items": "[{\"id\":\"p1\",\"quantity\":2}]",
		"total": 1000,
		"paymentProof": "/uploads/x.jpg"
	}`

	var req services.PlaceOrderRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	inv := newFakeInventory(map[string]int{"p1": 5})
	orders := &fakeOrders{}
	svc := guardedService(inv, orders)

	order, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.OrderItems{{ProductID: "p1", Quantity: 2}}, order.Items)
	assert.Equal(t, 3, inv.stockOf("p1"))
}

func TestPlaceOrder_Guarded_InsufficientStock(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5, "p2": 1})
	orders := &fakeOrders{}
	svc := guardedService(inv, orders)

	req := validRequest()
	req.Items = models.OrderItems{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}

	_, err := svc.PlaceOrder(context.Background(), req)

	var short *services.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "p2", short.ProductID)

	// The whole order aborts: p1's decrement is rolled back too.
	assert.Equal(t, 5, inv.stockOf("p1"))
	assert.Equal(t, 1, inv.stockOf("p2"))
	assert.Zero(t, orders.count())
}

func TestPlaceOrder_Guarded_SaveFailureRollsBack(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5})
	orders := &fakeOrders{createErr: errors.New("write concern timeout")}
	svc := guardedService(inv, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest())

	var perr *services.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, services.StepSaveOrder, perr.Step)
	assert.Equal(t, 5, inv.stockOf("p1"))
}

func TestPlaceOrder_Permissive_AllowsNegativeStock(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 1})
	orders := &fakeOrders{}
	svc := permissiveService(inv, orders)

	order, err := svc.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, -2, inv.stockOf("p1"), "legacy path decrements unconditionally")
}

func TestPlaceOrder_Permissive_CompensatesFailedSave(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5})
	orders := &fakeOrders{createErr: errors.New("insert failed")}
	svc := permissiveService(inv, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest())

	var perr *services.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, services.StepSaveOrder, perr.Step)
	assert.Equal(t, 5, inv.stockOf("p1"), "compensating increment restored stock")
}

func TestPlaceOrder_DecrementFailure(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5})
	inv.decrementErr = errors.New("connection reset")
	orders := &fakeOrders{}
	svc := permissiveService(inv, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest())

	var perr *services.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, services.StepDecrementStock, perr.Step)
	assert.Zero(t, orders.count())
}

func TestPlaceOrder_NotIdempotent(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 10})
	orders := &fakeOrders{}
	svc := guardedService(inv, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, orders.count(), "identical submissions place distinct orders")
	assert.Equal(t, 4, inv.stockOf("p1"))
}

func TestPlaceOrder_ConcurrentPlacements(t *testing.T) {
	const n = 20

	inv := newFakeInventory(map[string]int{"p1": n})
	orders := &fakeOrders{}
	svc := permissiveService(inv, orders)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := validRequest()
			req.Items = models.OrderItems{{ProductID: "p1", Quantity: 1}}
			_, err := svc.PlaceOrder(context.Background(), req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, inv.stockOf("p1"), "total decrement equals the sum of quantities")
	assert.Equal(t, n, orders.count())
}

func TestListAndGetOrder(t *testing.T) {
	inv := newFakeInventory(map[string]int{"p1": 5})
	orders := &fakeOrders{}
	svc := guardedService(inv, orders)

	placed, err := svc.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)

	all, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := svc.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Fullname, got.Fullname)
}
