package database

import (
	"context"
	"errors"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateUser inserts a new user document. The username unique index maps
// duplicate inserts to ErrDuplicateUsername.
func (d *Database) CreateUser(ctx context.Context, u *models.UserModel) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := d.users().InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindUserByUsername returns the user with the given username.
func (d *Database) FindUserByUsername(ctx context.Context, username string) (*models.UserModel, error) {
	var u models.UserModel
	err := d.users().FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindUserByID returns the user with the given hex object id.
func (d *Database) FindUserByID(ctx context.Context, id string) (*models.UserModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var u models.UserModel
	if err := d.users().FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// TouchLastLogin records a successful login.
func (d *Database) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := d.users().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"lastLogin": at, "updatedAt": at},
	})
	return err
}

// InsertTranslation persists one completed translation job record.
func (d *Database) InsertTranslation(ctx context.Context, job *models.TranslationJob) error {
	job.CreatedAt = time.Now()
	res, err := d.translations().InsertOne(ctx, job)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		job.ID = oid
	}
	return nil
}

// InsertSimilarity persists one completed similarity job record.
func (d *Database) InsertSimilarity(ctx context.Context, job *models.SimilarityJob) error {
	job.CreatedAt = time.Now()
	res, err := d.similarities().InsertOne(ctx, job)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		job.ID = oid
	}
	return nil
}

// ListTranslations returns a user's translation jobs, most recent first.
func (d *Database) ListTranslations(ctx context.Context, userID primitive.ObjectID) ([]models.TranslationJob, error) {
	cur, err := d.translations().Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	jobs := []models.TranslationJob{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListSimilarities returns a user's similarity jobs, most recent first.
func (d *Database) ListSimilarities(ctx context.Context, userID primitive.ObjectID) ([]models.SimilarityJob, error) {
	cur, err := d.similarities().Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	jobs := []models.SimilarityJob{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
