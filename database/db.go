package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"massobook/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotConfigured means no DATABASE_URL was given; the archive is optional.
var ErrNotConfigured = errors.New("database url is not configured")

// MongoClient is the global MongoDB client instance, nil when the archive is disabled.
var MongoClient *mongo.Client

// Connect opens and pings a MongoDB connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, ErrNotConfigured
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// InitDB connects using AppConfig and stores the client in MongoClient.
func InitDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, config.AppConfig.DatabaseURL)
	if err != nil {
		return err
	}
	MongoClient = client
	return nil
}

// Database returns the configured archive database.
func Database() *mongo.Database {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Database(config.AppConfig.DatabaseName)
}

func Close(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
