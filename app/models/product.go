package models

import "time"

// Product is one document in the products collection. The ID is a
// hex-encoded ObjectID assigned on create and never changed afterwards.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name"          json:"name"  validate:"required,max=255"`
	Description string    `bson:"description"   json:"description"`
	Price       float64   `bson:"price"         json:"price" validate:"required,gte=0"`
	Stock       int       `bson:"stock"         json:"stock" validate:"gte=0"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"     json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"     json:"updatedAt"`
}
