package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/application/services"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/performance"
	"github.com/Izzycode820/huzilerz-go/internal/presentation/http/middleware"
)

// CartHandlers contains the cart HTTP handlers.
type CartHandlers struct {
	cartService *services.CartService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCartHandlers creates cart handlers with injected dependencies.
func NewCartHandlers(cartService *services.CartService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CartHandlers {
	return &CartHandlers{
		cartService: cartService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetCart handles GET /api/v1/cart.
func (h *CartHandlers) GetCart(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}

	marker := h.perfTracker.StartOperation("get_cart_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.cartService.GetCart(c.Request.Context(), storeCtx, middleware.GetClientKey(c))
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}

// PostCartItem handles POST /api/v1/cart/items - add to cart.
func (h *CartHandlers) PostCartItem(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}

	var input services.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	marker := h.perfTracker.StartOperation("post_cart_item_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.cartService.AddToCart(c.Request.Context(), storeCtx, middleware.GetClientKey(c), input)
	marker.SetSuccess(result.Success)

	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PutCartItem handles PUT /api/v1/cart/items - debounced quantity change.
// The 200 carries the locally echoed cart; the backend mutation flushes
// after the debounce window and pushes the authoritative cart over the
// notice stream.
func (h *CartHandlers) PutCartItem(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}

	var req struct {
		ProductID string `json:"productId" binding:"required"`
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	marker := h.perfTracker.StartOperation("put_cart_item_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.cartService.UpdateQuantity(c.Request.Context(), storeCtx, middleware.GetClientKey(c), req.ProductID, req.VariantID, req.Quantity)
	marker.SetSuccess(result.Success)

	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteCartItem handles DELETE /api/v1/cart/items.
func (h *CartHandlers) DeleteCartItem(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}

	productID := c.Query("productId")
	variantID := c.Query("variantId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	marker := h.perfTracker.StartOperation("delete_cart_item_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.cartService.RemoveItem(c.Request.Context(), storeCtx, middleware.GetClientKey(c), productID, variantID)
	marker.SetSuccess(result.Success)

	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostDiscount handles POST /api/v1/cart/discount.
func (h *CartHandlers) PostDiscount(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	marker := h.perfTracker.StartOperation("post_discount_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.cartService.ApplyDiscount(c.Request.Context(), storeCtx, middleware.GetClientKey(c), req.Code)
	marker.SetSuccess(result.Success)

	// A rejected code is a normal response, not a transport failure.
	c.JSON(http.StatusOK, result)
}

// DeleteDiscount handles DELETE /api/v1/cart/discount.
func (h *CartHandlers) DeleteDiscount(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}

	marker := h.perfTracker.StartOperation("delete_discount_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.cartService.RemoveDiscount(c.Request.Context(), storeCtx, middleware.GetClientKey(c))
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}
