package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type MongoOrderStore struct {
	db *mongo.Database
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{db: db}
}

func (s *MongoOrderStore) collection() *mongo.Collection {
	return s.db.Collection("orders")
}

func (s *MongoOrderStore) Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := s.collection().InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	order.ID = id
	return id, nil
}

func (s *MongoOrderStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoOrderStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return s.updateFields(ctx, id, bson.M{"status": status})
}

func (s *MongoOrderStore) SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	return s.updateFields(ctx, id, bson.M{"paymentStatus": status})
}

func (s *MongoOrderStore) Cancel(ctx context.Context, id primitive.ObjectID) error {
	return s.updateFields(ctx, id, bson.M{
		"status":        models.OrderStatusCancelled,
		"paymentStatus": models.PaymentStatusFailed,
	})
}

func (s *MongoOrderStore) SetItemCount(ctx context.Context, id primitive.ObjectID, count int) error {
	return s.updateFields(ctx, id, bson.M{"itemCount": count})
}

func (s *MongoOrderStore) updateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *MongoOrderStore) List(ctx context.Context, page, limit int64) ([]models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoOrderStore) ListPendingWithoutItems(ctx context.Context) ([]models.Order, error) {
	filter := bson.M{
		"status":    models.OrderStatusPending,
		"itemCount": 0,
	}
	cursor, err := s.collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
