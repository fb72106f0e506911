package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderItem is one line item. The JSON key for the product reference is
// "id" to stay wire-compatible with the storefront client.
type OrderItem struct {
	ProductID string `bson:"productId" json:"id"`
	Quantity  int    `bson:"quantity"  json:"quantity"`
}

// OrderItems accepts either a JSON array or a JSON-encoded string holding
// that array. The storefront sends the items field as a string when the
// order form is submitted as multipart, and as a plain array otherwise.
type OrderItems []OrderItem

func (oi *OrderItems) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		data = []byte(encoded)
	}

	var items []OrderItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("items: %w", err)
	}
	*oi = items
	return nil
}

// Order is one document in the orders collection. Orders are append-only:
// once placed they are never updated or deleted by this service.
type Order struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Fullname     string     `bson:"fullname"      json:"fullname"`
	Gcash        string     `bson:"gcash"         json:"gcash"`
	Address      string     `bson:"address"       json:"address"`
	Items        OrderItems `bson:"items"         json:"items"`
	Total        float64    `bson:"total"         json:"total"`
	PaymentProof string     `bson:"paymentProof"  json:"paymentProof"`
	CreatedAt    time.Time  `bson:"createdAt"     json:"createdAt"`
}
