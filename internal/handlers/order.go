package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/auth"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/payment"
)

type orderStatusRequest struct {
	Status string `json:"status"`
}

type cartItem struct {
	ID string `json:"_id"`
}

type paymentRequest struct {
	Nonce string     `json:"nonce"`
	Cart  []cartItem `json:"cart"`
}

func (h *Handler) Orders(c *gin.Context) {
	userID, _ := auth.UserID(c)
	ctx := c.Request.Context()
	orders, err := h.store.Orders.ListByBuyer(ctx, userID)
	if err == nil {
		err = h.populateOrders(ctx, orders)
	}
	if err != nil {
		serverError(c, "Error while getting orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AllOrders(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := h.store.Orders.ListAll(ctx)
	if err == nil {
		err = h.populateOrders(ctx, orders)
	}
	if err != nil {
		serverError(c, "Error while getting orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) OrderStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "orderId")
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidOrderStatus(req.Status) {
		badRequest(c, "Invalid order status")
		return
	}
	ctx := c.Request.Context()
	order, err := h.store.Orders.UpdateStatus(ctx, id, req.Status)
	if isNotFound(err) {
		notFound(c, "Order not found")
		return
	}
	if err != nil {
		serverError(c, "Error while updating order", err)
		return
	}
	orders := []models.Order{*order}
	if err := h.populateOrders(ctx, orders); err != nil {
		serverError(c, "Error while updating order", err)
		return
	}
	c.JSON(http.StatusOK, orders[0])
}

// populateOrders resolves product and buyer references in place.
// Products that no longer exist are left out.
func (h *Handler) populateOrders(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	var productIDs []primitive.ObjectID
	buyers := make(map[primitive.ObjectID]*models.Buyer)
	for _, o := range orders {
		productIDs = append(productIDs, o.ProductIDs...)
		buyers[o.BuyerID] = nil
	}

	products, err := h.store.Products.FindByIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for id := range buyers {
		u, err := h.store.Users.FindByID(ctx, id)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}
		buyers[id] = &models.Buyer{ID: u.ID, Name: u.Name}
	}

	for i := range orders {
		orders[i].Products = make([]models.Product, 0, len(orders[i].ProductIDs))
		for _, pid := range orders[i].ProductIDs {
			if p, ok := byID[pid]; ok {
				orders[i].Products = append(orders[i].Products, p)
			}
		}
		orders[i].Buyer = buyers[orders[i].BuyerID]
	}
	return nil
}

func (h *Handler) BraintreeToken(c *gin.Context) {
	token, err := h.payments.ClientToken(c.Request.Context())
	if err != nil {
		serverError(c, "Error while generating payment token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clientToken": token})
}

// BraintreePayment charges the sum of the stored prices of the cart items
// and records the order.
func (h *Handler) BraintreePayment(c *gin.Context) {
	userID, _ := auth.UserID(c)
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Nonce) == "" {
		badRequest(c, "Payment nonce is required")
		return
	}
	if len(req.Cart) == 0 {
		badRequest(c, "Cart is empty")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.Cart))
	for _, item := range req.Cart {
		id, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			badRequest(c, "Invalid product in cart")
			return
		}
		ids = append(ids, id)
	}

	ctx := c.Request.Context()
	products, err := h.store.Products.FindByIDs(ctx, ids)
	if err != nil {
		serverError(c, "Error in payment", err)
		return
	}
	prices := make(map[primitive.ObjectID]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	var cents int64
	for _, id := range ids {
		price, ok := prices[id]
		if !ok {
			notFound(c, "Product "+id.Hex()+" not found")
			return
		}
		cents += payment.ToCents(price)
	}
	total := float64(cents) / 100

	result, err := h.payments.Sale(ctx, req.Nonce, total)
	if err != nil {
		serverError(c, "Payment failed", err)
		return
	}
	order := models.Order{
		ProductIDs: ids,
		Payment:    *result,
		BuyerID:    userID,
		Status:     models.StatusNotProcess,
	}
	if err := h.store.Orders.Create(ctx, &order); err != nil {
		serverError(c, "Error while saving order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}
