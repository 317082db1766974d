package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

type mongoProducts struct {
	coll *mongo.Collection
}

func (s *mongoProducts) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, p)
	return mapErr(err)
}

func (s *mongoProducts) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.CategoryID,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updatedAt":   p.UpdatedAt,
	}
	if p.Photo != nil {
		set["photo"] = p.Photo
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoProducts) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var p models.Product
	opts := options.FindOne().SetProjection(withoutPhoto)
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *mongoProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoProducts) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *mongoProducts) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(withoutPhoto))
}

func (s *mongoProducts) Photo(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	var p models.Product
	opts := options.FindOne().SetProjection(bson.M{"photo": 1})
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	if p.Photo == nil || len(p.Photo.Data) == 0 {
		return nil, ErrNotFound
	}
	return p.Photo, nil
}

func (s *mongoProducts) List(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetProjection(withoutPhoto)
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return s.find(ctx, productFilter(q), opts)
}

func (s *mongoProducts) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.EstimatedDocumentCount(ctx)
	return n, mapErr(err)
}

func (s *mongoProducts) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// productFilter builds the query document for a listing.
func productFilter(q models.ProductQuery) bson.M {
	filter := bson.M{}
	if len(q.CategoryIDs) > 0 {
		filter["category"] = bson.M{"$in": q.CategoryIDs}
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if q.Keyword != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if !q.ExcludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": q.ExcludeID}
	}
	return filter
}
