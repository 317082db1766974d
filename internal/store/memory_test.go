package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	u := &models.User{Name: "Ann", Email: "ann@example.com", Answer: "blue"}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.False(t, u.ID.IsZero())

	err := s.Users.Create(ctx, &models.User{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := s.Users.FindByEmailAndAnswer(ctx, "ann@example.com", "blue")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users.FindByEmailAndAnswer(ctx, "ann@example.com", "red")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Users.UpdatePassword(ctx, u.ID, "hash"))
	got, err = s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)

	phone := "555"
	updated, err := s.Users.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555", updated.Phone)
	assert.Equal(t, "Ann", updated.Name)

	_, err = s.Users.UpdateProfile(ctx, primitive.NewObjectID(), models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCategories(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	books := &models.Category{Name: "Books", Slug: "books"}
	toys := &models.Category{Name: "Toys", Slug: "toys"}
	require.NoError(t, s.Categories.Create(ctx, books))
	require.NoError(t, s.Categories.Create(ctx, toys))
	assert.ErrorIs(t, s.Categories.Create(ctx, &models.Category{Name: "x", Slug: "books"}), ErrDuplicate)

	_, err := s.Categories.Update(ctx, toys.ID, "Books", "books")
	assert.ErrorIs(t, err, ErrDuplicate)

	c, err := s.Categories.Update(ctx, toys.ID, "Games", "games")
	require.NoError(t, err)
	assert.Equal(t, "games", c.Slug)

	got, err := s.Categories.FindBySlug(ctx, "games")
	require.NoError(t, err)
	assert.Equal(t, toys.ID, got.ID)

	require.NoError(t, s.Categories.Delete(ctx, books.ID))
	assert.ErrorIs(t, s.Categories.Delete(ctx, books.ID), ErrNotFound)

	all, err := s.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryProductsList(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	catA, catB := primitive.NewObjectID(), primitive.NewObjectID()

	add := func(name, desc string, price float64, cat primitive.ObjectID) *models.Product {
		p := &models.Product{Name: name, Description: desc, Price: price, CategoryID: cat,
			Photo: &models.Photo{Data: []byte{1}, ContentType: "image/png"}}
		require.NoError(t, s.Products.Create(ctx, p))
		return p
	}
	laptop := add("Laptop", "A fast machine", 1500, catA)
	phone := add("Phone", "Pocket computer", 900, catA)
	novel := add("Novel", "A gripping LAPTOP thriller", 15, catB)

	all, err := s.Products.List(ctx, models.ProductQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, novel.ID, all[0].ID, "newest first")
	for _, p := range all {
		assert.Nil(t, p.Photo)
	}

	byCat, err := s.Products.List(ctx, models.ProductQuery{CategoryIDs: []primitive.ObjectID{catA}})
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	lo, hi := 100.0, 1000.0
	ranged, err := s.Products.List(ctx, models.ProductQuery{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, phone.ID, ranged[0].ID)

	found, err := s.Products.List(ctx, models.ProductQuery{Keyword: "laptop"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	related, err := s.Products.List(ctx, models.ProductQuery{
		CategoryIDs: []primitive.ObjectID{catA}, ExcludeID: laptop.ID,
	})
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, phone.ID, related[0].ID)

	page, err := s.Products.List(ctx, models.ProductQuery{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, phone.ID, page[0].ID)

	n, err := s.Products.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestMemoryProductPhotoKeptOnUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	p := &models.Product{Name: "Mug", Photo: &models.Photo{Data: []byte("png"), ContentType: "image/png"}}
	require.NoError(t, s.Products.Create(ctx, p))

	upd := &models.Product{ID: p.ID, Name: "Big Mug"}
	require.NoError(t, s.Products.Update(ctx, upd))

	photo, err := s.Products.Photo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), photo.Data)

	got, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", got.Name)
	assert.Nil(t, got.Photo)

	require.NoError(t, s.Products.Delete(ctx, p.ID))
	_, err = s.Products.Photo(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Products.Update(ctx, upd), ErrNotFound)
}

func TestMemoryOrders(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	buyer, other := primitive.NewObjectID(), primitive.NewObjectID()

	first := &models.Order{BuyerID: buyer}
	second := &models.Order{BuyerID: buyer}
	require.NoError(t, s.Orders.Create(ctx, first))
	require.NoError(t, s.Orders.Create(ctx, second))
	require.NoError(t, s.Orders.Create(ctx, &models.Order{BuyerID: other}))
	assert.Equal(t, models.StatusNotProcess, first.Status)

	mine, err := s.Orders.ListByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	all, err := s.Orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	o, err := s.Orders.UpdateStatus(ctx, first.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, o.Status)

	_, err = s.Orders.UpdateStatus(ctx, primitive.NewObjectID(), models.StatusShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}
