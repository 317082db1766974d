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

type mongoOrders struct {
	coll *mongo.Collection
}

func (s *mongoOrders) Create(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.CreatedAt, o.UpdatedAt = now, now
	if o.Status == "" {
		o.Status = models.StatusNotProcess
	}
	_, err := s.coll.InsertOne(ctx, o)
	return mapErr(err)
}

func (s *mongoOrders) ListByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"buyer": buyer})
}

func (s *mongoOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *mongoOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o models.Order
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *mongoOrders) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, mapErr(err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
