package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bilal-alaabadi/arkan-b/models"
)

var (
	// ErrInsufficientStock means the conditional decrement matched nothing:
	// either the product is missing or its stock is below the requested
	// quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrProductNotFound is returned when a product lookup matches nothing.
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// MongoProductRepository implements ProductRepository on a MongoDB collection.
type MongoProductRepository struct {
	col *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB backed product repository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection("products")}
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &product, nil
}

// DecrementStock applies stock -= quantity as a single conditional update
// that only matches when stock >= quantity, so stock can never go negative
// even under concurrent confirmations.
func (r *MongoProductRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", productID, ErrProductNotFound)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}
