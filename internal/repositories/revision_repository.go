package repositories

import (
	"context"
	"time"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RevisionRepository defines the interface for the page revision archive
type RevisionRepository interface {
	ArchiveRevision(ctx context.Context, revision *models.PageRevision) error
	GetRevisionsByPageID(ctx context.Context, pageID uint, skip, limit int64) ([]models.PageRevision, error)
	CountRevisions(ctx context.Context, pageID uint) (int64, error)
	DeleteRevisionsByPageID(ctx context.Context, pageID uint) error
}

// MongoRevisionRepository implements RevisionRepository for MongoDB
type MongoRevisionRepository struct {
	collection *mongo.Collection
}

// NewMongoRevisionRepository creates a new MongoRevisionRepository
func NewMongoRevisionRepository(db *mongo.Database) *MongoRevisionRepository {
	return &MongoRevisionRepository{collection: db.Collection("page_revisions")}
}

// ArchiveRevision stores a page revision document, assigning the next version number
func (r *MongoRevisionRepository) ArchiveRevision(ctx context.Context, revision *models.PageRevision) error {
	count, err := r.CountRevisions(ctx, revision.PageID)
	if err != nil {
		return err
	}
	revision.VersionNumber = count + 1
	revision.CreatedAt = time.Now().UTC()
	_, err = r.collection.InsertOne(ctx, revision)
	return err
}

// GetRevisionsByPageID retrieves a page's revisions, newest first
func (r *MongoRevisionRepository) GetRevisionsByPageID(ctx context.Context, pageID uint, skip, limit int64) ([]models.PageRevision, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "version_number", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"page_id": pageID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var revisions []models.PageRevision
	if err = cursor.All(ctx, &revisions); err != nil {
		return nil, err
	}
	return revisions, nil
}

// CountRevisions returns how many revisions a page has
func (r *MongoRevisionRepository) CountRevisions(ctx context.Context, pageID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"page_id": pageID})
}

// DeleteRevisionsByPageID removes a page's revision history
func (r *MongoRevisionRepository) DeleteRevisionsByPageID(ctx context.Context, pageID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"page_id": pageID})
	return err
}
