// Package handlers implements the REST API served under /api/v1.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/auth"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/cache"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/payment"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	store    *store.Store
	tokens   *auth.Issuer
	cache    cache.Cache
	payments payment.Gateway
	ping     func(context.Context) error
	validate *validator.Validate
}

type Option func(*Handler)

func WithCache(c cache.Cache) Option {
	return func(h *Handler) { h.cache = c }
}

func WithPayments(g payment.Gateway) Option {
	return func(h *Handler) { h.payments = g }
}

// WithPing sets the database check used by /health.
func WithPing(ping func(context.Context) error) Option {
	return func(h *Handler) { h.ping = ping }
}

func New(s *store.Store, tokens *auth.Issuer, opts ...Option) *Handler {
	h := &Handler{
		store:    s,
		tokens:   tokens,
		cache:    cache.Nop{},
		payments: payment.Unconfigured{},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Welcome to ecommerce app</h1>"))
}

func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// serverError logs err and answers 500 with msg.
func serverError(c *gin.Context, msg string, err error) {
	log.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": msg,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": msg})
}

// objectIDParam parses the named path parameter, answering 400 when it is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// invalidate drops cached keys; a failure only costs freshness until the TTL.
func (h *Handler) invalidate(ctx context.Context, keys ...string) {
	if err := h.cache.Delete(ctx, keys...); err != nil {
		log.Printf("cache: delete %v: %v", keys, err)
	}
}
