package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "users"

type userDocument struct {
	ID        string             `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CartItems []cartItemDocument `bson:"cartItems"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type cartItemDocument struct {
	Product  string `bson:"product"`
	Quantity int    `bson:"quantity"`
}

// MongoRepository stores users in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a repository and ensures the unique email index.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(collectionName)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepository{coll: coll}, nil
}

// Create inserts a new user. A duplicate email maps to ErrEmailTaken.
func (r *MongoRepository) Create(ctx context.Context, user User) error {
	doc := toDocument(user)
	doc.Email = NormalizeEmail(doc.Email)
	_, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail loads a user by normalized email.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

// FindByID loads a user by identifier.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// UpdateCart replaces the embedded cart.
func (r *MongoRepository) UpdateCart(ctx context.Context, id string, items []CartItem) error {
	docs := make([]cartItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, cartItemDocument{Product: item.ProductID, Quantity: item.Quantity})
	}
	return r.update(ctx, id, bson.M{"cartItems": docs})
}

// UpdateRole changes the role of an existing user.
func (r *MongoRepository) UpdateRole(ctx context.Context, id string, role Role) error {
	return r.update(ctx, id, bson.M{"role": string(role)})
}

// Count returns the number of registered users.
func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *MongoRepository) update(ctx context.Context, id string, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return fromDocument(doc), nil
}

func toDocument(u User) userDocument {
	items := make([]cartItemDocument, 0, len(u.CartItems))
	for _, item := range u.CartItems {
		items = append(items, cartItemDocument{Product: item.ProductID, Quantity: item.Quantity})
	}
	return userDocument{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  string(u.PasswordHash),
		Role:      string(u.Role),
		CartItems: items,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func fromDocument(doc userDocument) User {
	var items []CartItem
	for _, item := range doc.CartItems {
		items = append(items, CartItem{ProductID: item.Product, Quantity: item.Quantity})
	}
	return User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: []byte(doc.Password),
		Role:         Role(doc.Role),
		CartItems:    items,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}
