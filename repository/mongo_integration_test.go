package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bilal-alaabadi/arkan-b/models"
	"github.com/bilal-alaabadi/arkan-b/repository"
)

// These tests run only when RUN_MONGO_INTEGRATION=true and a MongoDB instance
// is reachable at MONGO_URI (default mongodb://localhost:27017).
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if os.Getenv("RUN_MONGO_INTEGRATION") != "true" {
		t.Skip("skipping mongo integration test; set RUN_MONGO_INTEGRATION=true to run")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(context.Background(), nil))

	db := client.Database("arkan_integration_test")
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func seedProduct(t *testing.T, db *mongo.Database, stock int) string {
	t.Helper()
	id := primitive.NewObjectID()
	_, err := db.Collection("products").InsertOne(context.Background(), bson.M{
		"_id":   id,
		"name":  "Shayla",
		"price": 10.0,
		"stock": stock,
	})
	require.NoError(t, err)
	return id.Hex()
}

func productStock(t *testing.T, db *mongo.Database, id string) int {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.Collection("products").FindOne(context.Background(), bson.M{"_id": oid}).Decode(&product))
	return product.Stock
}

func TestDecrementStock_ConcurrentOrders(t *testing.T) {
	db := setupMongo(t)
	repo := repository.NewMongoProductRepository(db)
	productID := seedProduct(t, db, 3)

	// Two confirmations race for 2 units each with only 3 on hand.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.DecrementStock(context.Background(), productID, 2)
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected decrement error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 1, productStock(t, db, productID))
}

func TestDecrementStock_ExactStock(t *testing.T) {
	db := setupMongo(t)
	repo := repository.NewMongoProductRepository(db)
	productID := seedProduct(t, db, 2)

	require.NoError(t, repo.DecrementStock(context.Background(), productID, 2))
	assert.Equal(t, 0, productStock(t, db, productID))

	// A further decrement finds nothing to match and leaves stock at zero.
	err := repo.DecrementStock(context.Background(), productID, 1)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, 0, productStock(t, db, productID))
}

func TestOrderSave_UpsertsAfterDelete(t *testing.T) {
	db := setupMongo(t)
	repo := repository.NewMongoOrderRepository(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	order := &models.Order{
		OrderReference: "ref-upsert-1",
		Status:         models.StatusAwaitingPayment,
		Amount:         21,
	}
	require.NoError(t, repo.Insert(context.Background(), order))

	_, err := db.Collection("orders").DeleteOne(context.Background(), bson.M{"order_reference": "ref-upsert-1"})
	require.NoError(t, err)

	// The order vanished between lookup and write; Save still records it.
	order.Status = models.StatusPaid
	require.NoError(t, repo.Save(context.Background(), order))

	got, err := repo.FindByReference(context.Background(), "ref-upsert-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusPaid, got.Status)
}

func TestUpdateStatus_StaleReadConflicts(t *testing.T) {
	db := setupMongo(t)
	repo := repository.NewMongoOrderRepository(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	order := &models.Order{
		OrderReference: "ref-status-1",
		Status:         models.StatusPaid,
	}
	require.NoError(t, repo.Insert(context.Background(), order))
	id := order.ID.Hex()

	// A writer holding a stale view of the status matches nothing.
	_, err := repo.UpdateStatus(context.Background(), id, models.StatusAwaitingPayment, models.StatusPaid)
	assert.ErrorIs(t, err, repository.ErrStatusConflict)

	updated, err := repo.UpdateStatus(context.Background(), id, models.StatusPaid, models.StatusFulfilled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFulfilled, updated.Status)
}
