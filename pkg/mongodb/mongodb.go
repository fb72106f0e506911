// Package mongodb owns the MongoDB connection for the application.
//
// The handle has an explicit lifecycle: Connect → ready → Close. It is
// created once at startup and injected into the repositories; application
// code never dials MongoDB on its own.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout  = 5 * time.Second
	maxConnectTries = 5
	retryBackoff    = 5 * time.Second
)

// Store wraps a mongo client scoped to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping. The dial
// is retried with a fixed backoff so a server that starts before MongoDB
// comes up degrades to waiting instead of crashing.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout).
		SetMaxPoolSize(25)

	var lastErr error
	for attempt := 1; attempt <= maxConnectTries; attempt++ {
		client, err := mongo.Connect(ctx, opts)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			err = client.Ping(pingCtx, readpref.Primary())
			cancel()
			if err == nil {
				return &Store{client: client, db: client.Database(dbName)}, nil
			}
			_ = client.Disconnect(context.Background())
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("mongodb: connect: %w", ctx.Err())
		case <-time.After(retryBackoff):
		}
	}

	return nil, fmt.Errorf("mongodb: connect after %d attempts: %w", maxConnectTries, lastErr)
}

// Collection returns a handle to the named collection in the configured
// database.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Client exposes the underlying client for session-based transactions.
func (s *Store) Client() *mongo.Client {
	return s.client
}

// SupportsTransactions reports whether the deployment accepts
// multi-document transactions (replica set or mongos). Standalone servers
// do not, in which case order placement falls back to the non-transactional
// batched decrement path.
func (s *Store) SupportsTransactions(ctx context.Context) bool {
	session, err := s.client.StartSession()
	if err != nil {
		return false
	}
	defer session.EndSession(ctx)

	err = session.StartTransaction()
	if err != nil {
		return false
	}
	_ = session.AbortTransaction(ctx)
	return true
}

// Close disconnects the client. The store must not be used afterwards.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb: disconnect: %w", err)
	}
	return nil
}
