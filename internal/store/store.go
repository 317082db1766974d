// Package store holds the persistence interfaces the HTTP handlers depend on,
// with a MongoDB implementation and an in-memory one.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
}

// ProductStore never returns photo bytes except from Photo.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	// Update replaces the product's fields; the stored photo is kept when p.Photo is nil.
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Photo(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	List(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	ListByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
}

// Store bundles the per-entity stores.
type Store struct {
	Users      UserStore
	Categories CategoryStore
	Products   ProductStore
	Orders     OrderStore
}
