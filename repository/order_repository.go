package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bilal-alaabadi/arkan-b/models"
)

var (
	// ErrOrderNotFound is returned when an order lookup matches nothing.
	ErrOrderNotFound = errors.New("order not found")

	// ErrStatusConflict means a conditional status update found the order in a
	// different state than the caller observed.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderRepository defines the interface for order data access.
// FindByReference returns (nil, nil) when no order exists for the reference,
// since reconciliation treats absence as a normal case.
type OrderRepository interface {
	FindByReference(ctx context.Context, orderReference string) (*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByEmail(ctx context.Context, email string) ([]models.Order, error)
	FindAllByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	Insert(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id string) (*models.Order, error)
}

// MongoOrderRepository implements OrderRepository on a MongoDB collection.
type MongoOrderRepository struct {
	col *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoDB backed order repository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

// EnsureIndexes creates the unique order_reference index. Concurrent
// confirmations for the same reference rely on it to reject a duplicate
// insert.
func (r *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order_reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create order_reference index: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) FindByReference(ctx context.Context, orderReference string) (*models.Order, error) {
	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"order_reference": orderReference}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by reference: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	var order models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByEmail(ctx context.Context, email string) ([]models.Order, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find orders by email: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) FindAllByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders by status: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// Save replaces the full order document keyed by order reference. It upserts
// so a confirmed payment is still recorded when the order was deleted between
// the lookup and the write.
func (r *MongoOrderRepository) Save(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()

	res, err := r.col.ReplaceOne(ctx,
		bson.M{"order_reference": order.OrderReference},
		order,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// UpdateStatus moves the order from one lifecycle state to another as a
// single conditional update: the write only matches while the order is still
// in the from state, so a concurrent change cannot slip an illegal transition
// through a stale read.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "status": from}, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		// Nothing matched: the order is gone, or its status moved on.
		exists := r.col.FindOne(ctx, bson.M{"_id": oid})
		if exists.Err() == mongo.ErrNoDocuments {
			return nil, ErrOrderNotFound
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	var order models.Order
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	return &order, nil
}
