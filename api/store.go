package main

import (
	"context"
	"errors"

	"agriforecast/api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

// Store is the persistence the handlers need. Lookups that miss return
// errNotFound; unique-key violations return errDuplicate.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)

	CreateField(ctx context.Context, f *models.Field) error
	ListFields(ctx context.Context, owner primitive.ObjectID) ([]models.Field, error)
	GetField(ctx context.Context, owner, id primitive.ObjectID) (models.Field, error)
	DeleteField(ctx context.Context, owner, id primitive.ObjectID) error

	AddReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Report, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type mongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	fields  *mongo.Collection
	reports *mongo.Collection
}

func newMongoStore(ctx context.Context, uri, dbName string) (*mongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &mongoStore{
		client:  client,
		users:   db.Collection("users"),
		fields:  db.Collection("fields"),
		reports: db.Collection("reports"),
	}
	// Indexes
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := s.fields.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := s.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *mongoStore) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errDuplicate
		}
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoStore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, notFound(err)
}

func (s *mongoStore) UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, notFound(err)
}

func (s *mongoStore) CreateField(ctx context.Context, f *models.Field) error {
	res, err := s.fields.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoStore) ListFields(ctx context.Context, owner primitive.ObjectID) ([]models.Field, error) {
	cur, err := s.fields.Find(ctx, bson.M{"ownerId": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Field{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) GetField(ctx context.Context, owner, id primitive.ObjectID) (models.Field, error) {
	var f models.Field
	err := s.fields.FindOne(ctx, bson.M{"_id": id, "ownerId": owner}).Decode(&f)
	return f, notFound(err)
}

func (s *mongoStore) DeleteField(ctx context.Context, owner, id primitive.ObjectID) error {
	res, err := s.fields.DeleteOne(ctx, bson.M{"_id": id, "ownerId": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errNotFound
	}
	return nil
}

func (s *mongoStore) AddReport(ctx context.Context, r *models.Report) error {
	res, err := s.reports.InsertOne(ctx, r)
	if err != nil {
		return err
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoStore) ListReports(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.reports.Find(ctx, bson.M{"ownerId": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *mongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errNotFound
	}
	return err
}
