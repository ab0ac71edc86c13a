package coupons

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "coupons"

type couponDocument struct {
	ID                 string    `bson:"_id"`
	Code               string    `bson:"code"`
	DiscountPercentage int       `bson:"discountPercentage"`
	ExpirationDate     time.Time `bson:"expirationDate"`
	IsActive           bool      `bson:"isActive"`
	UserID             string    `bson:"userId"`
	CreatedAt          time.Time `bson:"createdAt"`
}

// MongoRepository stores coupons in MongoDB with one document per user.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds the repository and ensures unique code and user indexes.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(collectionName)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepository{coll: coll}, nil
}

func (r *MongoRepository) FindActiveByUser(ctx context.Context, userID string) (Coupon, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "isActive": true})
}

func (r *MongoRepository) FindActiveByCode(ctx context.Context, userID, code string) (Coupon, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "code": code, "isActive": true})
}

// Replace upserts on userId so a user never holds two coupons.
func (r *MongoRepository) Replace(ctx context.Context, c Coupon) error {
	doc := couponDocument(c)
	doc.ExpirationDate = doc.ExpirationDate.UTC()
	doc.CreatedAt = doc.CreatedAt.UTC()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"userId": c.UserID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepository) Deactivate(ctx context.Context, userID, code string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "code": code},
		bson.M{"$set": bson.M{"isActive": false}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (Coupon, error) {
	var doc couponDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Coupon{}, ErrNotFound
	}
	if err != nil {
		return Coupon{}, err
	}
	c := Coupon(doc)
	c.ExpirationDate = c.ExpirationDate.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
