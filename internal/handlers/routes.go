package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/auth"
)

// SetupRoutes mounts every endpoint on r.
func SetupRoutes(r *gin.Engine, h *Handler) {
	signIn := auth.RequireSignIn(h.tokens)
	admin := auth.IsAdmin(h.store.Users)

	r.GET("/", h.Home)
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")

	a := api.Group("/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
		a.POST("/forgot-password", h.ForgotPassword)
		a.GET("/test", signIn, admin, h.Test)
		a.GET("/user-auth", signIn, h.AuthOK)
		a.GET("/admin-auth", signIn, admin, h.AuthOK)
		a.PUT("/profile", signIn, h.UpdateProfile)
		a.GET("/orders", signIn, h.Orders)
		a.GET("/all-orders", signIn, admin, h.AllOrders)
		a.PUT("/order-status/:orderId", signIn, admin, h.OrderStatus)
	}

	cat := api.Group("/category")
	{
		cat.POST("/create-category", signIn, admin, h.CreateCategory)
		cat.PUT("/update-category/:id", signIn, admin, h.UpdateCategory)
		cat.GET("/get-category", h.Categories)
		cat.GET("/single-category/:slug", h.SingleCategory)
		cat.DELETE("/delete-category/:id", signIn, admin, h.DeleteCategory)
	}

	p := api.Group("/product")
	{
		p.POST("/create-product", signIn, admin, h.CreateProduct)
		p.PUT("/update-product/:pid", signIn, admin, h.UpdateProduct)
		p.GET("/get-product", h.Products)
		p.GET("/get-product/:slug", h.SingleProduct)
		p.GET("/product-photo/:pid", h.ProductPhoto)
		p.DELETE("/delete-product/:pid", signIn, admin, h.DeleteProduct)
		p.POST("/product-filters", h.FilterProducts)
		p.GET("/product-count", h.ProductCount)
		p.GET("/product-list/:page", h.ProductList)
		p.GET("/search/:keyword", h.SearchProducts)
		p.GET("/related-product/:pid/:cid", h.RelatedProducts)
		p.GET("/product-category/:slug", h.ProductsByCategory)
		p.GET("/braintree/token", h.BraintreeToken)
		p.POST("/braintree/payment", signIn, h.BraintreePayment)
	}
}
