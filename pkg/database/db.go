// Package database owns the Mongo client.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Conn is a connected client bound to one database.
type Conn struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials uri, verifies the connection and selects database name.
// It returns an error instead of exiting so the caller can shut down cleanly.
func Connect(ctx context.Context, uri, name string) (*Conn, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Conn{Client: client, DB: client.Database(name)}, nil
}

// Collection returns the named collection.
func (c *Conn) Collection(name string) *mongo.Collection {
	return c.DB.Collection(name)
}

// Ping reports whether the primary is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return errors.New("database: not connected")
	}
	return c.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}
