package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VDECKSHOP/backend/app/models"
	"github.com/VDECKSHOP/backend/pkg/mongodb"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts upserts a small demo catalogue, keyed by name so reruns
// don't duplicate products.
func SeedProducts(ctx context.Context, store *mongodb.Store) error {
	col := store.Collection("products")
	now := time.Now().UTC()

	demo := []models.Product{
		{Name: "Classic Tee", Description: "Plain cotton tee", Price: 299, Stock: 50},
		{Name: "Hoodie", Description: "Fleece pullover hoodie", Price: 799, Stock: 25},
		{Name: "Cap", Description: "Adjustable baseball cap", Price: 199, Stock: 40},
		{Name: "Sticker Pack", Description: "Set of 10 vinyl stickers", Price: 99, Stock: 200},
	}

	for _, p := range demo {
		p.CreatedAt = now
		p.UpdatedAt = now

		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"name":        p.Name,
				"description": p.Description,
				"price":       p.Price,
				"stock":       p.Stock,
				"createdAt":   p.CreatedAt,
				"updatedAt":   p.UpdatedAt,
			},
		}
		_, err := col.UpdateOne(ctx, bson.M{"name": p.Name}, update, options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	return nil
}
