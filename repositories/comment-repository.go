package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"taskflow-project/backend/models"
)

// CommentRepository covers the comment data model. Comments have no
// endpoints yet; the only live path is the cascade delete when their task
// is removed.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.TaskComment) error
	FindByTaskID(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskComment, error)
	DeleteByTaskID(ctx context.Context, taskID primitive.ObjectID) (int64, error)
}

type MongoCommentRepository struct {
	collection *mongo.Collection
}

func NewMongoCommentRepository(collection *mongo.Collection) *MongoCommentRepository {
	return &MongoCommentRepository{collection: collection}
}

func (r *MongoCommentRepository) Insert(ctx context.Context, comment *models.TaskComment) error {
	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoCommentRepository) FindByTaskID(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskComment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []models.TaskComment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) DeleteByTaskID(ctx context.Context, taskID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments: %w", err)
	}
	return result.DeletedCount, nil
}
