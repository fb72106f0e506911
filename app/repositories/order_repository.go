package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VDECKSHOP/backend/app/models"
	"github.com/VDECKSHOP/backend/pkg/metrics"
)

// OrderRepository handles the orders collection. Orders are append-only;
// there is no update or delete.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(col *mongo.Collection) *OrderRepository {
	return &OrderRepository{col: col}
}

// Create assigns the id and creation timestamp, then inserts the document.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveMongoOp("orders_insert", time.Now())

	o.ID = primitive.NewObjectID().Hex()
	o.CreatedAt = time.Now().UTC()

	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

// FindAll returns every order, newest first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	defer metrics.ObserveMongoOp("orders_find_all", time.Now())

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("orders: find: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	defer metrics.ObserveMongoOp("orders_find_one", time.Now())

	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: find %s: %w", id, err)
	}
	return o, nil
}
