package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

type mongoCategories struct {
	coll *mongo.Collection
}

func (s *mongoCategories) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, c)
	return mapErr(err)
}

func (s *mongoCategories) Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error) {
	update := bson.M{"$set": bson.M{
		"name":      name,
		"slug":      slug,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Category
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *mongoCategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoCategories) List(ctx context.Context) ([]models.Category, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapErr(err)
	}
	categories := []models.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *mongoCategories) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var c models.Category
	if err := s.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *mongoCategories) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoCategories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *mongoCategories) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"name": name})
}
