package store

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/coupon"
	"storefront/internal/models"
)

type MongoCouponStore struct {
	db *mongo.Database
}

func NewMongoCouponStore(db *mongo.Database) *MongoCouponStore {
	return &MongoCouponStore{db: db}
}

func (s *MongoCouponStore) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := s.db.Collection("coupons").FindOne(ctx, bson.M{
		"code":     strings.ToUpper(code),
		"isActive": true,
	}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, coupon.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
