// Package database owns the MongoDB client and the collection layout.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/etuition/etuition-api/pkg/metrics"
)

// Collection names.
const (
	Users        = "users"
	Tutors       = "tutors"
	Tuitions     = "tuitions"
	Applications = "applications"
	Logs         = "logs"
)

const connectTimeout = 10 * time.Second

// DB bundles the client with the selected database.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials uri, verifies the primary is reachable and selects dbName.
// Every command's latency is recorded under the db query histogram.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(50).
		SetMonitor(commandMonitor())

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &DB{Client: client, Database: client.Database(dbName)}, nil
}

// Collection returns the named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what makes user creation race-free.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		Tutors: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		Tuitions: {
			{Keys: bson.D{{Key: "isAdminApproved", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "creatorEmail", Value: 1}}},
		},
		Applications: {
			{Keys: bson.D{{Key: "creatorEmail", Value: 1}}},
			{Keys: bson.D{{Key: "tutorEmail", Value: 1}}},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("database: indexes on %s: %w", name, err)
		}
	}
	return nil
}

func commandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			metrics.DBQueryDuration.WithLabelValues(e.CommandName).Observe(e.Duration.Seconds())
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			metrics.DBQueryDuration.WithLabelValues(e.CommandName).Observe(e.Duration.Seconds())
			metrics.DBQueryErrors.WithLabelValues(e.CommandName).Inc()
		},
	}
}
