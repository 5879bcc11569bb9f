// Package mongostore implements storage.Adapter on MongoDB, one mongo
// collection per storefront collection with string _id values.
package mongostore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ storage.Adapter = (*Store)(nil)

// Options mirror the pool settings the storefront has always run with.
type Options struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	ServerSelectionTimeout time.Duration
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetMaxPoolSize(opts.MaxPoolSize).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}

	s := New(client, opts.Database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database), now: time.Now}
}

// EnsureIndexes creates the unique indexes backing the storefront's
// uniqueness rules.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		storage.CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		storage.CollectionWishlists: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique},
		},
		storage.CollectionCarts: {
			{Keys: bson.D{{Key: "owner", Value: 1}}, Options: unique},
		},
		storage.CollectionReviews: {
			{Keys: bson.D{{Key: "productId", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", name)
		}
	}
	return nil
}

func (s *Store) Create(ctx context.Context, collection string, doc storage.Document) (storage.Document, error) {
	prepared := storage.PrepareCreate(doc, s.now())
	if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M(prepared)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.Wrapf(storage.ErrDuplicateKey, "%s/%s", collection, prepared.ID())
		}
		return nil, errors.Wrapf(err, "insert %s", collection)
	}
	return prepared, nil
}

func (s *Store) Read(ctx context.Context, collection string, q storage.Query) ([]storage.Document, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: storage.FieldCreatedAt, Value: 1}, {Key: storage.FieldID, Value: 1}})
	cursor, err := s.db.Collection(collection).Find(ctx, Filter(q), findOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", collection)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrapf(err, "decode %s", collection)
	}
	out := make([]storage.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, Normalize(m))
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch storage.Document) (storage.Document, error) {
	update := bson.M{"$set": bson.M(storage.PrepareUpdate(patch, s.now()))}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out bson.M
	err := s.db.Collection(collection).FindOneAndUpdate(ctx, bson.M{storage.FieldID: id}, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrapf(storage.ErrNotFound, "%s/%s", collection, id)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.Wrapf(storage.ErrDuplicateKey, "%s/%s", collection, id)
		}
		return nil, errors.Wrapf(err, "update %s/%s", collection, id)
	}
	return Normalize(out), nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{storage.FieldID: id})
	if err != nil {
		return errors.Wrapf(err, "delete %s/%s", collection, id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(storage.ErrNotFound, "%s/%s", collection, id)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
