package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/config"
	"github.com/dredninja/Subtitle-Translator/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel errors shared by all repositories.
var (
	// ErrDuplicateUsername is returned when the unique index on
	// users.username rejects an insert.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
)

const connectTimeout = 10 * time.Second

// Database wraps the Mongo client and exposes typed repositories.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB connection and ensures indexes.
func Connect(ctx context.Context, cfg *config.AppConfig) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := &Database{client: client, db: client.Database(cfg.MongoDatabase)}
	if err := d.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return d, nil
}

// Close disconnects the underlying client.
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *Database) users() *mongo.Collection {
	return d.db.Collection(models.UserModel{}.CollectionName())
}

func (d *Database) translations() *mongo.Collection {
	return d.db.Collection(models.TranslationJob{}.CollectionName())
}

func (d *Database) similarities() *mongo.Collection {
	return d.db.Collection(models.SimilarityJob{}.CollectionName())
}

// ensureIndexes enforces the username uniqueness invariant at the storage
// layer and indexes job lookups by owner.
func (d *Database) ensureIndexes(ctx context.Context) error {
	_, err := d.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	ownerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	if _, err := d.translations().Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return err
	}
	_, err = d.similarities().Indexes().CreateOne(ctx, ownerIndex)
	return err
}
