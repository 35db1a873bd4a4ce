package repository

import (
	"context"
	"errors"
	"fmt"

	blogserrors "clinic/internal/blogs/errors"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	"clinic/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Blogs"
)

type mongoBlogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id string) (*model.Blog, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Blog, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, blog *model.Blog) error
	Delete(ctx context.Context, id string) error
}

func NewMongoBlogRepository(cfg *config.Config) BlogRepository {
	return &mongoBlogRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoBlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, blog)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		blog.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlogRepository) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", blogserrors.ErrInvalidID, id)
	}

	var blog model.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, blogserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find blog: %w", err)
	}

	return &blog, nil
}

// FindAll returns blogs newest first.
func (r *mongoBlogRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Blog, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "publish_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var blogs []*model.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("failed to decode blogs: %w", err)
	}

	return blogs, nil
}

func (r *mongoBlogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count blogs: %w", err)
	}
	return count, nil
}

func (r *mongoBlogRepository) Update(ctx context.Context, id string, blog *model.Blog) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", blogserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":        blog.Title,
			"author":       blog.Author,
			"content":      blog.Content,
			"publish_date": blog.PublishDate,
			"updated_at":   blog.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	if result.MatchedCount == 0 {
		return blogserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBlogRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", blogserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if result.DeletedCount == 0 {
		return blogserrors.ErrNotFound
	}
	return nil
}
