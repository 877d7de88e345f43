package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var (
	// ErrNotFound signals that no document matched the query.
	ErrNotFound = errors.New("store: document not found")
	// ErrDuplicate signals that a document with the same unique key already
	// exists. Callers treat this as "already seeded", not as a failure.
	ErrDuplicate = errors.New("store: duplicate document")
)

const (
	districtsCollection   = "districts"
	performanceCollection = "performance_records"
	apiLogsCollection     = "api_logs"
	syncLogsCollection    = "sync_logs"

	retryDelay = 5 * time.Second
)

// Store owns the MongoDB client and every collection operation. It is
// constructed once in main and injected into the seeder and the handlers;
// nothing holds it as package-global state.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB with retries, verifies the connection and ensures
// the collection indexes exist.
func Connect(uri, dbName string, maxRetries int) (*Store, error) {
	var (
		s   *Store
		err error
	)
	for i := 0; i < maxRetries; i++ {
		s, err = connect(uri, dbName)
		if err == nil {
			return s, nil
		}
		log.Printf("Failed to connect to MongoDB (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %v", maxRetries, err)
}

func connect(uri, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %v", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(dbName),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("error creating indexes: %v", err)
	}

	log.Printf("Successfully connected to MongoDB database: %s", dbName)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	districtIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "state_code", Value: 1},
				{Key: "district_name", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("state_district_idx"),
		},
	}
	if _, err := s.db.Collection(districtsCollection).Indexes().CreateMany(ctx, districtIndexes); err != nil {
		return fmt.Errorf("error creating district indexes: %v", err)
	}

	performanceIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "state_code", Value: 1},
				{Key: "district_name", Value: 1},
				{Key: "data_month", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("state_district_month_idx"),
		},
		{
			Keys: bson.D{
				{Key: "state_code", Value: 1},
				{Key: "data_month", Value: 1},
			},
			Options: options.Index().SetName("state_month_idx"),
		},
	}
	if _, err := s.db.Collection(performanceCollection).Indexes().CreateMany(ctx, performanceIndexes); err != nil {
		return fmt.Errorf("error creating performance indexes: %v", err)
	}

	log.Printf("Successfully created MongoDB indexes")
	return nil
}

// Ping verifies the connection is alive. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB health check failed: %v", err)
	}
	return nil
}

// Close disconnects the client. Safe to call once during shutdown.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		log.Printf("Error closing MongoDB connection: %v", err)
	}
}
