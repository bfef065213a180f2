package http

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionStore interface {
	Create(ctx context.Context, ident domain.Identity) (string, error)
	Lookup(ctx context.Context, token string) (domain.Identity, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	users    *services.UserService
	catalog  *services.CatalogService
	carts    *services.CartService
	orders   *services.OrderService
	sessions SessionStore
	cookie   CookieConfig
}

func NewHandler(
	users *services.UserService,
	catalog *services.CatalogService,
	carts *services.CartService,
	orders *services.OrderService,
	sessions SessionStore,
	cookie CookieConfig,
) *Handler {
	return &Handler{
		users:    users,
		catalog:  catalog,
		carts:    carts,
		orders:   orders,
		sessions: sessions,
		cookie:   cookie,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(h.loadIdentity())

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)

	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:slug", h.GetCategory)
	api.GET("/products", h.ListProducts)
	api.GET("/products/new", h.ListNewProducts)
	api.GET("/products/promo", h.ListPromoProducts)
	api.GET("/products/:slug", h.GetProduct)

	auth := api.Group("", requireUser())
	auth.GET("/user", h.GetUser)
	auth.PATCH("/user", h.UpdateUser)
	auth.POST("/user/change-password", h.ChangePassword)

	auth.GET("/cart", h.GetCart)
	auth.POST("/cart", h.AddToCart)
	auth.PATCH("/cart/:id", h.UpdateCartItem)
	auth.DELETE("/cart/:id", h.RemoveCartItem)
	auth.DELETE("/cart", h.ClearCart)

	auth.GET("/orders/user", h.ListUserOrders)
	auth.GET("/orders/:id", h.GetOrder)
	auth.POST("/orders", h.PlaceOrder)

	admin := api.Group("/admin", requireAdmin())
	admin.GET("/products", h.AdminListProducts)
	admin.POST("/products", h.CreateProduct)
	admin.GET("/products/export", h.ExportProducts)
	admin.PATCH("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.GET("/categories", h.ListCategories)
	admin.POST("/categories", h.CreateCategory)
	admin.PATCH("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
	admin.GET("/orders", h.AdminListOrders)
	admin.PATCH("/orders/:id", h.UpdateOrderStatus)
	admin.GET("/stats", h.Stats)
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// Accounts

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.startSession(c, user); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.startSession(c, user); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			writeError(c, err)
			return
		}
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *Handler) startSession(c *gin.Context, user *domain.User) error {
	token, err := h.sessions.Create(c.Request.Context(), user.Identity())
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	return nil
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var patch services.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), identity(c), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), identity(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// Catalog

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) ListProducts(c *gin.Context) {
	h.listProducts(c, services.ProductQuery{
		CategorySlug: c.Query("category"),
		Featured:     c.Query("featured") == "true",
		New:          c.Query("new") == "true",
		Promo:        c.Query("promo") == "true",
	})
}

func (h *Handler) ListNewProducts(c *gin.Context) {
	h.listProducts(c, services.ProductQuery{New: true})
}

func (h *Handler) ListPromoProducts(c *gin.Context) {
	h.listProducts(c, services.ProductQuery{Promo: true})
}

func (h *Handler) listProducts(c *gin.Context, q services.ProductQuery) {
	products, err := h.catalog.ListProducts(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Cart

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	item, err := h.carts.Add(c.Request.Context(), identity(c), req.ProductID, qty)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CartItemResponse{CartItem: *item, Product: item.Product})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.carts.UpdateQuantity(c.Request.Context(), identity(c), id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartItemResponse{CartItem: *item, Product: item.Product})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.carts.Remove(c.Request.Context(), identity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), identity(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Orders

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), identity(c), req.ShippingInfo())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListUserOrders(c *gin.Context) {
	orders, err := h.orders.ListForUser(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), identity(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Admin

func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.catalog.AdminListProducts(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), identity(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch services.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), identity(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), identity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.catalog.ExportProducts(c.Request.Context(), identity(c), &buf); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), identity(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch services.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), identity(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), identity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), identity(c), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.orders.Stats(c.Request.Context(), identity(c), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
