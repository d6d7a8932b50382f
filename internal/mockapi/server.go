// Package mockapi 在内存中实现商城后端的 REST 契约，
// 用于本地开发联调和网络路径的测试。
package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/umedzhan/agromarket/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const pageSize = 8

// user 内存用户记录
type user struct {
	ID       string
	Name     string
	Email    string
	Password string
	IsAdmin  bool
	IsFarmer bool
}

// Server 内存版商城后端
type Server struct {
	mu     sync.Mutex
	secret []byte

	usersByEmail map[string]*user
	usersByID    map[string]*user
	products     map[string]models.Product
	productOrder []string
	wishlists    map[string][]string
	orders       map[string]*models.Order
	ordersByKey  map[string]string
	orderSeq     int
	userSeq      int

	createOrderCalls int
}

// NewServer 创建空的内存后端
func NewServer() *Server {
	return &Server{
		secret:       []byte(uuid.NewString()),
		usersByEmail: make(map[string]*user),
		usersByID:    make(map[string]*user),
		products:     make(map[string]models.Product),
		wishlists:    make(map[string][]string),
		orders:       make(map[string]*models.Order),
		ordersByKey:  make(map[string]string),
	}
}

// AddUser 预置用户并返回其主体（带有效 token）
func (s *Server) AddUser(name, email, password string, isAdmin, isFarmer bool) models.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userSeq++
	u := &user{
		ID:       fmt.Sprintf("user-%d", s.userSeq),
		Name:     name,
		Email:    email,
		Password: password,
		IsAdmin:  isAdmin,
		IsFarmer: isFarmer,
	}
	s.usersByEmail[email] = u
	s.usersByID[u.ID] = u
	return s.principalLocked(u)
}

// AddProduct 预置商品
func (s *Server) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		s.productOrder = append(s.productOrder, p.ID)
	}
	s.products[p.ID] = p
}

// CreateOrderCalls 返回订单创建端点的命中次数（测试观测用）
func (s *Server) CreateOrderCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createOrderCalls
}

// IssueToken 为指定用户签发自定义有效期的 token（测试过期场景用）
func (s *Server) IssueToken(userID string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token
}

// Router 组装 gin 路由
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/login", s.handleLogin)
		apiGroup.POST("/auth", s.handleRegister)
		apiGroup.PUT("/auth/profile", s.authRequired(), s.handleUpdateProfile)

		apiGroup.GET("/products", s.handleListProducts)
		apiGroup.GET("/products/:id", s.handleGetProduct)

		apiGroup.GET("/wishlist", s.authRequired(), s.handleGetWishlist)
		apiGroup.POST("/wishlist", s.authRequired(), s.handleAddWishlist)
		apiGroup.DELETE("/wishlist/:id", s.authRequired(), s.handleRemoveWishlist)

		apiGroup.POST("/orders", s.authRequired(), s.handleCreateOrder)
		apiGroup.GET("/orders", s.authRequired(), s.handleListOrders)
		apiGroup.GET("/orders/:id", s.authRequired(), s.handleGetOrder)
		apiGroup.PUT("/orders/:id/pay/admin", s.authRequired(), s.handlePayOrder)
		apiGroup.PUT("/orders/:id/deliver", s.authRequired(), s.handleDeliverOrder)
	}
	return r
}

func (s *Server) principalLocked(u *user) models.Principal {
	claims := jwt.MapClaims{
		"sub": u.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return models.Principal{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		IsFarmer: u.IsFarmer,
		Token:    token,
	}
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			failJSON(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil {
			failJSON(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		sub, _ := claims["sub"].(string)
		s.mu.Lock()
		u, ok := s.usersByID[sub]
		s.mu.Unlock()
		if !ok {
			failJSON(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		c.Set("user", u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *user {
	v, _ := c.Get("user")
	u, _ := v.(*user)
	return u
}

func failJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	u, ok := s.usersByEmail[req.Email]
	if !ok || u.Password != req.Password {
		s.mu.Unlock()
		failJSON(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	principal := s.principalLocked(u)
	s.mu.Unlock()
	c.JSON(http.StatusOK, principal)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	if _, exists := s.usersByEmail[req.Email]; exists {
		s.mu.Unlock()
		failJSON(c, http.StatusBadRequest, "User already exists")
		return
	}
	s.userSeq++
	u := &user{
		ID:       fmt.Sprintf("user-%d", s.userSeq),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	s.usersByEmail[req.Email] = u
	s.usersByID[u.ID] = u
	principal := s.principalLocked(u)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, principal)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u := currentUser(c)
	s.mu.Lock()
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" && req.Email != u.Email {
		delete(s.usersByEmail, u.Email)
		u.Email = req.Email
		s.usersByEmail[u.Email] = u
	}
	if req.Password != "" {
		u.Password = req.Password
	}
	principal := s.principalLocked(u)
	s.mu.Unlock()
	c.JSON(http.StatusOK, principal)
}

func (s *Server) handleListProducts(c *gin.Context) {
	keyword := strings.ToLower(strings.TrimSpace(c.Query("keyword")))
	category := strings.TrimSpace(c.Query("category"))
	page, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	matched := make([]models.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		p := s.products[id]
		if keyword != "" && !strings.Contains(strings.ToLower(p.Name), keyword) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	pages := (len(matched) + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	c.JSON(http.StatusOK, models.ProductPage{
		Products: matched[start:end],
		Page:     page,
		Pages:    pages,
	})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	s.mu.Lock()
	p, ok := s.products[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		failJSON(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) wishlistProductsLocked(userID string) []models.Product {
	ids := s.wishlists[userID]
	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			items = append(items, p)
		}
	}
	return items
}

func (s *Server) handleGetWishlist(c *gin.Context) {
	u := currentUser(c)
	s.mu.Lock()
	items := s.wishlistProductsLocked(u.ID)
	s.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleAddWishlist(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u := currentUser(c)
	s.mu.Lock()
	if _, ok := s.products[req.ProductID]; !ok {
		s.mu.Unlock()
		failJSON(c, http.StatusNotFound, "Product not found")
		return
	}
	already := false
	for _, id := range s.wishlists[u.ID] {
		if id == req.ProductID {
			already = true
			break
		}
	}
	if !already {
		s.wishlists[u.ID] = append(s.wishlists[u.ID], req.ProductID)
	}
	items := s.wishlistProductsLocked(u.ID)
	s.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleRemoveWishlist(c *gin.Context) {
	u := currentUser(c)
	productID := c.Param("id")
	s.mu.Lock()
	ids := s.wishlists[u.ID]
	filtered := ids[:0]
	for _, id := range ids {
		if id != productID {
			filtered = append(filtered, id)
		}
	}
	s.wishlists[u.ID] = filtered
	items := s.wishlistProductsLocked(u.ID)
	s.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	u := currentUser(c)

	s.mu.Lock()
	s.createOrderCalls++
	s.mu.Unlock()

	var draft models.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		failJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(draft.OrderItems) == 0 {
		failJSON(c, http.StatusBadRequest, "No order items")
		return
	}

	s.mu.Lock()
	// 同一幂等键的重试返回已创建的订单
	if draft.IdempotencyKey != "" {
		if orderID, ok := s.ordersByKey[draft.IdempotencyKey]; ok {
			existing := *s.orders[orderID]
			s.mu.Unlock()
			c.JSON(http.StatusCreated, existing)
			return
		}
	}
	s.orderSeq++
	now := time.Now()
	order := &models.Order{
		ID:              fmt.Sprintf("order-%d", s.orderSeq),
		User:            u.ID,
		OrderItems:      draft.OrderItems,
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   draft.PaymentMethod,
		ItemsPrice:      draft.ItemsPrice,
		ShippingPrice:   draft.ShippingPrice,
		TaxPrice:        draft.TaxPrice,
		TotalPrice:      draft.TotalPrice,
		CreatedAt:       &now,
	}
	s.orders[order.ID] = order
	if draft.IdempotencyKey != "" {
		s.ordersByKey[draft.IdempotencyKey] = order.ID
	}
	created := *order
	s.mu.Unlock()
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleListOrders(c *gin.Context) {
	u := currentUser(c)
	s.mu.Lock()
	orders := make([]models.Order, 0)
	for _, order := range s.orders {
		if order.User == u.ID {
			orders = append(orders, *order)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleGetOrder(c *gin.Context) {
	u := currentUser(c)
	s.mu.Lock()
	order, ok := s.orders[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		failJSON(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.User != u.ID && !u.IsAdmin && !u.IsFarmer {
		failJSON(c, http.StatusForbidden, "Not authorized")
		return
	}
	c.JSON(http.StatusOK, *order)
}

func (s *Server) handlePayOrder(c *gin.Context) {
	u := currentUser(c)
	if !u.IsAdmin {
		failJSON(c, http.StatusForbidden, "Not authorized as admin")
		return
	}
	s.mu.Lock()
	order, ok := s.orders[c.Param("id")]
	if ok {
		now := time.Now()
		order.IsPaid = true
		order.PaidAt = &now
	}
	s.mu.Unlock()
	if !ok {
		failJSON(c, http.StatusNotFound, "Order not found")
		return
	}
	c.JSON(http.StatusOK, *order)
}

func (s *Server) handleDeliverOrder(c *gin.Context) {
	u := currentUser(c)
	if !u.IsAdmin && !u.IsFarmer {
		failJSON(c, http.StatusForbidden, "Not authorized")
		return
	}
	s.mu.Lock()
	order, ok := s.orders[c.Param("id")]
	if ok {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
	}
	s.mu.Unlock()
	if !ok {
		failJSON(c, http.StatusNotFound, "Order not found")
		return
	}
	c.JSON(http.StatusOK, *order)
}
