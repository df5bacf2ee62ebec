package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type MongoCartStore struct {
	db *mongo.Database
}

func NewMongoCartStore(db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{db: db}
}

func (s *MongoCartStore) collection() *mongo.Collection {
	return s.db.Collection("cart_items")
}

func (s *MongoCartStore) GetCart(ctx context.Context, customerID primitive.ObjectID) ([]models.CartItem, error) {
	cursor, err := s.collection().Find(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem increments the quantity when the same (product, variant) line
// already exists, otherwise inserts a new line. The unique index on the
// line key turns a concurrent double-insert into a duplicate-key error.
func (s *MongoCartStore) AddItem(ctx context.Context, customerID, productID primitive.ObjectID, variantID *primitive.ObjectID, quantity int) error {
	now := time.Now()
	filter := bson.M{
		"customerId": customerID,
		"productId":  productID,
		"variantId":  variantID,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"customerId": customerID,
			"productId":  productID,
			"variantId":  variantID,
			"createdAt":  now,
		},
	}
	_, err := s.collection().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoCartStore) UpdateQuantity(ctx context.Context, customerID, itemID primitive.ObjectID, quantity int) error {
	filter := bson.M{"_id": itemID, "customerId": customerID}
	update := bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": time.Now()}}
	_, err := s.collection().UpdateOne(ctx, filter, update)
	return err
}

func (s *MongoCartStore) RemoveItem(ctx context.Context, customerID, itemID primitive.ObjectID) error {
	_, err := s.collection().DeleteOne(ctx, bson.M{"_id": itemID, "customerId": customerID})
	return err
}

// Clear removes every line for the customer. Clearing an already-empty cart
// deletes zero rows and reports success.
func (s *MongoCartStore) Clear(ctx context.Context, customerID primitive.ObjectID) error {
	_, err := s.collection().DeleteMany(ctx, bson.M{"customerId": customerID})
	return err
}
