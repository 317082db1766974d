package handlers

import (
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/cache"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

const (
	homePageSize = 12
	perPage      = 6
	maxPage      = math.MaxInt / perPage
	relatedLimit = 3
)

type filterRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// productForm reads the multipart product form shared by create and update.
// On failure it has already written a 400 response.
func (h *Handler) productForm(c *gin.Context) (*models.Product, bool) {
	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	price := strings.TrimSpace(c.PostForm("price"))
	category := strings.TrimSpace(c.PostForm("category"))
	quantity := strings.TrimSpace(c.PostForm("quantity"))

	if missing := firstMissing(
		[2]string{"Name", name},
		[2]string{"Description", description},
		[2]string{"Price", price},
		[2]string{"Category", category},
		[2]string{"Quantity", quantity},
	); missing != "" {
		badRequest(c, missing+" is Required")
		return nil, false
	}

	p := &models.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		Shipping:    parseShipping(c.PostForm("shipping")),
	}
	var err error
	if p.Price, err = strconv.ParseFloat(price, 64); err != nil || p.Price < 0 {
		badRequest(c, "Price must be a non-negative number")
		return nil, false
	}
	if p.Quantity, err = strconv.Atoi(quantity); err != nil || p.Quantity < 0 {
		badRequest(c, "Quantity must be a non-negative integer")
		return nil, false
	}
	if p.CategoryID, err = primitive.ObjectIDFromHex(category); err != nil {
		badRequest(c, "Invalid category")
		return nil, false
	}
	cat, err := h.store.Categories.FindByID(c.Request.Context(), p.CategoryID)
	if err != nil {
		if isNotFound(err) {
			badRequest(c, "Invalid category")
		} else {
			serverError(c, "Error in product form", err)
		}
		return nil, false
	}
	p.Category = cat

	photo, msg := readPhoto(c)
	if msg != "" {
		badRequest(c, msg)
		return nil, false
	}
	p.Photo = photo
	return p, true
}

// readPhoto returns the uploaded photo, nil when none was sent, or a
// validation message.
func readPhoto(c *gin.Context) (*models.Photo, string) {
	file, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ""
	}
	if err != nil {
		return nil, "Invalid photo upload"
	}
	if file.Size > models.MaxPhotoSize {
		return nil, "Photo should be less than 1mb"
	}
	f, err := file.Open()
	if err != nil {
		return nil, "Invalid photo upload"
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, models.MaxPhotoSize+1))
	if err != nil {
		return nil, "Invalid photo upload"
	}
	if len(data) > models.MaxPhotoSize {
		return nil, "Photo should be less than 1mb"
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "Unsupported photo format"
	}
	return &models.Photo{Data: data, ContentType: mt.String()}, ""
}

func parseShipping(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (h *Handler) CreateProduct(c *gin.Context) {
	p, ok := h.productForm(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Products.Create(ctx, p); err != nil {
		serverError(c, "Error in creating product", err)
		return
	}
	h.invalidate(ctx, cache.KeyProductCount)
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Product Created Successfully",
		"products": p,
	})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "pid")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := h.store.Products.FindByID(ctx, id)
	if isNotFound(err) {
		notFound(c, "Product not found")
		return
	}
	if err != nil {
		serverError(c, "Error in updating product", err)
		return
	}

	p, ok := h.productForm(c)
	if !ok {
		return
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	if err := h.store.Products.Update(ctx, p); err != nil {
		if isNotFound(err) {
			notFound(c, "Product not found")
			return
		}
		serverError(c, "Error in updating product", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Product Updated Successfully",
		"products": p,
	})
}

func (h *Handler) Products(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.store.Products.List(ctx, models.ProductQuery{Limit: homePageSize})
	if err == nil {
		err = h.populateCategories(ctx, products)
	}
	if err != nil {
		serverError(c, "Error in getting products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"countTotal": len(products),
		"message":    "All Products",
		"products":   products,
	})
}

func (h *Handler) SingleProduct(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.store.Products.FindBySlug(ctx, c.Param("slug"))
	if isNotFound(err) {
		notFound(c, "Product not found")
		return
	}
	if err == nil {
		products := []models.Product{*p}
		err = h.populateCategories(ctx, products)
		p = &products[0]
	}
	if err != nil {
		serverError(c, "Error while getting single product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Single Product Fetched",
		"product": p,
	})
}

func (h *Handler) ProductPhoto(c *gin.Context) {
	id, ok := objectIDParam(c, "pid")
	if !ok {
		return
	}
	photo, err := h.store.Products.Photo(c.Request.Context(), id)
	if isNotFound(err) {
		notFound(c, "Photo not found")
		return
	}
	if err != nil {
		serverError(c, "Error while getting photo", err)
		return
	}
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "pid")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.store.Products.Delete(ctx, id)
	if isNotFound(err) {
		notFound(c, "Product not found")
		return
	}
	if err != nil {
		serverError(c, "Error while deleting product", err)
		return
	}
	h.invalidate(ctx, cache.KeyProductCount)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product Deleted successfully"})
}

func (h *Handler) FilterProducts(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Error while filtering products")
		return
	}
	var q models.ProductQuery
	for _, raw := range req.Checked {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			badRequest(c, "Invalid category id")
			return
		}
		q.CategoryIDs = append(q.CategoryIDs, id)
	}
	switch len(req.Radio) {
	case 0:
	case 2:
		lo, hi := req.Radio[0], req.Radio[1]
		q.MinPrice, q.MaxPrice = &lo, &hi
	default:
		badRequest(c, "Price range must have a minimum and a maximum")
		return
	}

	ctx := c.Request.Context()
	products, err := h.store.Products.List(ctx, q)
	if err == nil {
		err = h.populateCategories(ctx, products)
	}
	if err != nil {
		serverError(c, "Error while filtering products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *Handler) ProductCount(c *gin.Context) {
	ctx := c.Request.Context()
	var total int64
	hit, err := h.cache.Get(ctx, cache.KeyProductCount, &total)
	if err != nil {
		log.Printf("cache: get %s: %v", cache.KeyProductCount, err)
	}
	if !hit || err != nil {
		total, err = h.store.Products.Count(ctx)
		if err != nil {
			serverError(c, "Error in product count", err)
			return
		}
		if err := h.cache.Set(ctx, cache.KeyProductCount, total); err != nil {
			log.Printf("cache: set %s: %v", cache.KeyProductCount, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": total})
}

func (h *Handler) ProductList(c *gin.Context) {
	page := 1
	if raw := c.Param("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPage {
			badRequest(c, "Invalid page")
			return
		}
		page = n
	}
	ctx := c.Request.Context()
	products, err := h.store.Products.List(ctx, models.ProductQuery{
		Skip:  int64((page - 1) * perPage),
		Limit: perPage,
	})
	if err == nil {
		err = h.populateCategories(ctx, products)
	}
	if err != nil {
		serverError(c, "Error in per page product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *Handler) SearchProducts(c *gin.Context) {
	keyword := strings.TrimSpace(c.Param("keyword"))
	if keyword == "" {
		badRequest(c, "Keyword is required")
		return
	}
	ctx := c.Request.Context()
	products, err := h.store.Products.List(ctx, models.ProductQuery{Keyword: keyword})
	if err == nil {
		err = h.populateCategories(ctx, products)
	}
	if err != nil {
		serverError(c, "Error in search product API", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) RelatedProducts(c *gin.Context) {
	pid, ok := objectIDParam(c, "pid")
	if !ok {
		return
	}
	cid, ok := objectIDParam(c, "cid")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	products, err := h.store.Products.List(ctx, models.ProductQuery{
		CategoryIDs: []primitive.ObjectID{cid},
		ExcludeID:   pid,
		Limit:       relatedLimit,
	})
	if err == nil {
		err = h.populateCategories(ctx, products)
	}
	if err != nil {
		serverError(c, "Error while getting related products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *Handler) ProductsByCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := h.store.Categories.FindBySlug(ctx, c.Param("slug"))
	if isNotFound(err) {
		notFound(c, "Category not found")
		return
	}
	if err != nil {
		serverError(c, "Error while getting products", err)
		return
	}
	products, err := h.store.Products.List(ctx, models.ProductQuery{
		CategoryIDs: []primitive.ObjectID{category.ID},
	})
	if err != nil {
		serverError(c, "Error while getting products", err)
		return
	}
	for i := range products {
		products[i].Category = category
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
		"products": products,
	})
}
