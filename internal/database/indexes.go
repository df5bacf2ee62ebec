package database

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	customerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customerId", Value: 1}},
		Options: options.Index().SetName("customerId_index"),
	}
	statusIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "itemCount", Value: 1}},
		Options: options.Index().SetName("status_itemCount_index"),
	}

	log.Info("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{customerIndex, statusIndex})
	if err != nil {
		log.Error("EnsureOrderIndexes: ", err)
		return err
	}
	return nil
}

func EnsureOrderItemIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("order_items").Indexes()

	orderIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetName("orderId_index"),
	}

	log.Info("EnsureOrderItemIndexes: creating orderId_index")
	_, err := indexes.CreateOne(ctx, orderIndex)
	if err != nil {
		log.Error("EnsureOrderItemIndexes: ", err)
		return err
	}
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("cart_items").Indexes()

	// One row per (customer, product, variant); concurrent adds of the same
	// product surface as a duplicate-key error instead of a second row.
	lineIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerId", Value: 1},
			{Key: "productId", Value: 1},
			{Key: "variantId", Value: 1},
		},
		Options: options.Index().SetName("cart_line_unique").SetUnique(true),
	}

	log.Info("EnsureCartIndexes: creating cart_line_unique")
	_, err := indexes.CreateOne(ctx, lineIndex)
	if err != nil {
		log.Error("EnsureCartIndexes: ", err)
		return err
	}
	return nil
}

func EnsureCouponIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("coupons").Indexes()

	codeIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName("code_unique").SetUnique(true),
	}

	log.Info("EnsureCouponIndexes: creating code_unique")
	_, err := indexes.CreateOne(ctx, codeIndex)
	if err != nil {
		log.Error("EnsureCouponIndexes: ", err)
		return err
	}
	return nil
}
