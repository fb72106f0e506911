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

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("repositories: not found")

// ProductRepository handles the products collection.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(col *mongo.Collection) *ProductRepository {
	return &ProductRepository{col: col}
}

// FindAll returns every product, newest first.
func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveMongoOp("products_find_all", time.Now())

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("products: find: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	defer metrics.ObserveMongoOp("products_find_one", time.Now())

	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("products: find %s: %w", id, err)
	}
	return p, nil
}

// Create assigns the id and timestamps, then inserts the document.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveMongoOp("products_insert", time.Now())

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID().Hex()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveMongoOp("products_update", time.Now())

	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"image":       p.Image,
		"updatedAt":   p.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("products: update %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveMongoOp("products_delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("products: delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock conditionally decrements stock by qty in one atomic
// update. The filter requires stock >= qty, so there is no
// read-modify-write window and stock cannot go negative through this path.
// Returns false when the product is missing or has insufficient stock.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	defer metrics.ObserveMongoOp("stock_decrement", time.Now())

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return false, fmt.Errorf("products: decrement %s: %w", productID, err)
	}
	return res.ModifiedCount == 1, nil
}

// BatchDecrement applies one unconditional $inc per line item in a single
// unordered BulkWrite. Items are independent of each other and of any
// later order insert; a decrement can drive stock negative. Returns the
// number of products that matched.
func (r *ProductRepository) BatchDecrement(ctx context.Context, items []models.OrderItem) (int64, error) {
	defer metrics.ObserveMongoOp("stock_bulk_decrement", time.Now())

	ops := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": item.ProductID}).
			SetUpdate(bson.M{"$inc": bson.M{"stock": -item.Quantity}}))
	}

	res, err := r.col.BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("products: bulk decrement: %w", err)
	}
	return res.MatchedCount, nil
}

// BatchIncrement reverses a batch decrement. Used as the compensating
// action when the order insert fails after stock was already deducted.
func (r *ProductRepository) BatchIncrement(ctx context.Context, items []models.OrderItem) error {
	defer metrics.ObserveMongoOp("stock_bulk_increment", time.Now())

	ops := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": item.ProductID}).
			SetUpdate(bson.M{"$inc": bson.M{"stock": item.Quantity}}))
	}

	if _, err := r.col.BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("products: bulk increment: %w", err)
	}
	return nil
}
