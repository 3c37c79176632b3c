package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/models"
)

const subscribersCollection = "subscribers"

// ConnectMongo opens a client and pings the primary.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

type subscriberDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	SubscribedAt time.Time          `bson:"subscribed_at"`
}

// SubscriberRepository stores newsletter addresses in MongoDB.
type SubscriberRepository struct {
	coll *mongo.Collection
}

func NewSubscriberRepository(db *mongo.Database) *SubscriberRepository {
	return &SubscriberRepository{coll: db.Collection(subscribersCollection)}
}

// EnsureIndexes creates the unique email index.
func (r *SubscriberRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func (r *SubscriberRepository) Create(ctx context.Context, s *models.Subscriber) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	s.Email = strings.ToLower(s.Email)
	res, err := r.coll.InsertOne(ctx, subscriberDoc{Email: s.Email, SubscribedAt: s.SubscribedAt})
	if err != nil {
		return mapMongoError(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

func (r *SubscriberRepository) List(ctx context.Context, p models.Page) ([]models.Subscriber, int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "subscribed_at", Value: -1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find subscribers: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Subscriber{}
	for cur.Next(ctx) {
		var doc subscriberDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode subscriber: %w", err)
		}
		out = append(out, models.Subscriber{ID: doc.ID.Hex(), Email: doc.Email, SubscribedAt: doc.SubscribedAt})
	}
	return out, int(total), cur.Err()
}

func (r *SubscriberRepository) Delete(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
