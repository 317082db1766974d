package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/cache"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// bindCategoryName reads and trims the name, answering 401 when it is missing
// and 400 when the body is not JSON.
func bindCategoryName(c *gin.Context) (string, bool) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Name is required"})
		return "", false
	}
	return name, true
}

func (h *Handler) CreateCategory(c *gin.Context) {
	name, ok := bindCategoryName(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.Categories.FindByName(ctx, name); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category Already Exists"})
		return
	} else if !isNotFound(err) {
		serverError(c, "Error in category", err)
		return
	}

	category := models.Category{Name: name, Slug: slug.Make(name)}
	if err := h.store.Categories.Create(ctx, &category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category Already Exists"})
			return
		}
		serverError(c, "Error in category", err)
		return
	}
	h.invalidate(ctx, cache.KeyCategories)
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "New category created",
		"category": category,
	})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	name, ok := bindCategoryName(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	category, err := h.store.Categories.Update(ctx, id, name, slug.Make(name))
	switch {
	case isNotFound(err):
		notFound(c, "Category not found")
		return
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Category Already Exists"})
		return
	case err != nil:
		serverError(c, "Error while updating category", err)
		return
	}
	h.invalidate(ctx, cache.KeyCategories)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category Updated Successfully",
		"category": category,
	})
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.listCategories(c.Request.Context())
	if err != nil {
		serverError(c, "Error while getting all categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "All Categories List",
		"category": categories,
	})
}

func (h *Handler) SingleCategory(c *gin.Context) {
	category, err := h.store.Categories.FindBySlug(c.Request.Context(), c.Param("slug"))
	if isNotFound(err) {
		notFound(c, "Category not found")
		return
	}
	if err != nil {
		serverError(c, "Error While getting Single Category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Get Single Category Successfully",
		"category": category,
	})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.store.Categories.Delete(ctx, id)
	if isNotFound(err) {
		notFound(c, "Category not found")
		return
	}
	if err != nil {
		serverError(c, "Error while deleting category", err)
		return
	}
	h.invalidate(ctx, cache.KeyCategories)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category Deleted Successfully"})
}

// listCategories serves the category list from cache when it can.
func (h *Handler) listCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	hit, err := h.cache.Get(ctx, cache.KeyCategories, &categories)
	if err != nil {
		log.Printf("cache: get %s: %v", cache.KeyCategories, err)
	}
	if hit && err == nil {
		return categories, nil
	}
	categories, err = h.store.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, cache.KeyCategories, categories); err != nil {
		log.Printf("cache: set %s: %v", cache.KeyCategories, err)
	}
	return categories, nil
}

// populateCategories fills Product.Category from the category list.
func (h *Handler) populateCategories(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	categories, err := h.listCategories(ctx)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	for i := range products {
		if cat, ok := byID[products[i].CategoryID]; ok {
			cat := cat
			products[i].Category = &cat
		}
	}
	return nil
}
