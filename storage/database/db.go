package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

// Collections
const (
	UserCollection       = "users"
	StudentCollection    = "students"
	AttendanceCollection = "attendances"
)

// Open connects to the MongoDB deployment of conf and returns its application database.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetConnectTimeout(conf.Database.Timeout).
		SetServerSelectionTimeout(conf.Database.Timeout).
		SetTimeout(conf.Database.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client.Database(conf.Database.Name), nil
}

// Close disconnects the client of db.
func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = client.Ping(ctx, nil)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping timeout")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// indexes lists the indexes every collection needs, keyed by collection name.
var indexes = map[string][]mongo.IndexModel{
	UserCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	StudentCollection: {
		{Keys: bson.D{{Key: "register", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "department", Value: 1}, {Key: "year", Value: 1}, {Key: "section", Value: 1}}},
	},
	AttendanceCollection: {
		// one document per class and calendar date
		{
			Keys: bson.D{
				{Key: "department", Value: 1},
				{Key: "year", Value: 1},
				{Key: "section", Value: 1},
				{Key: "semester", Value: 1},
				{Key: "day", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "students.studentId", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	},
}

// EnsureIndexes creates the missing indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

// Drop deletes the whole application database.
func Drop(ctx context.Context, db *mongo.Database) error {
	return errors.Wrap(db.Drop(ctx), "dropping database")
}
