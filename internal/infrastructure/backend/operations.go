package backend

import (
	"context"
	"fmt"
)

// GraphQL operation documents. The gateway treats these as opaque named
// operations; field shapes are pinned by the payload types in types.go.
const (
	createCartMutation = `mutation CreateCart {
  createCart {
    success error sessionId expiresAt
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	getCartQuery = `query GetCart($sessionId: ID!) {
  cart(sessionId: $sessionId) {
    success error
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	addToCartMutation = `mutation AddToCart($sessionId: ID!, $productId: ID!, $variantId: ID, $quantity: Int!) {
  addToCart(sessionId: $sessionId, productId: $productId, variantId: $variantId, quantity: $quantity) {
    success error
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	updateCartItemMutation = `mutation UpdateCartItem($sessionId: ID!, $productId: ID!, $variantId: ID, $quantity: Int!) {
  updateCartItem(sessionId: $sessionId, productId: $productId, variantId: $variantId, quantity: $quantity) {
    success error
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	removeFromCartMutation = `mutation RemoveFromCart($sessionId: ID!, $productId: ID!, $variantId: ID) {
  removeFromCart(sessionId: $sessionId, productId: $productId, variantId: $variantId) {
    success error
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	applyDiscountMutation = `mutation ApplyDiscount($sessionId: ID!, $code: String!) {
  applyDiscount(sessionId: $sessionId, code: $code) {
    success error
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	removeDiscountMutation = `mutation RemoveDiscount($sessionId: ID!) {
  removeDiscount(sessionId: $sessionId) {
    success error
    cart { id items { productId variantId title quantity unitPrice linePrice } discountCode subtotal discountAmount total currency }
  }
}`

	customerLoginMutation = `mutation CustomerLogin($email: String!, $password: String!) {
  customerLogin(email: $email, password: $password) {
    success error token
    customer { id firstName lastName email phone emailVerified phoneVerified }
  }
}`

	validateCustomerSessionQuery = `query ValidateCustomerSession($token: String!) {
  validateCustomerSession(token: $token) {
    success error token
    customer { id firstName lastName email phone emailVerified phoneVerified }
  }
}`

	customerLogoutMutation = `mutation CustomerLogout($token: String!) {
  customerLogout(token: $token) { success error }
}`
)

// CreateCart creates a new guest cart session with no input.
func (c *Client) CreateCart(ctx context.Context, target Target) (*CartSessionPayload, error) {
	var out struct {
		CreateCart CartSessionPayload `json:"createCart"`
	}
	if err := c.Exec(ctx, target, "CreateCart", createCartMutation, nil, &out); err != nil {
		return nil, err
	}
	return &out.CreateCart, nil
}

// GetCart fetches the authoritative cart for a guest session.
func (c *Client) GetCart(ctx context.Context, target Target, sessionID string) (*CartPayload, error) {
	var out struct {
		Cart CartPayload `json:"cart"`
	}
	vars := map[string]any{"sessionId": sessionID}
	if err := c.Exec(ctx, target, "GetCart", getCartQuery, vars, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

// AddToCart adds a product (optionally a specific variant) to the cart.
func (c *Client) AddToCart(ctx context.Context, target Target, sessionID, productID, variantID string, quantity int) (*CartPayload, error) {
	var out struct {
		AddToCart CartPayload `json:"addToCart"`
	}
	vars := map[string]any{
		"sessionId": sessionID,
		"productId": productID,
		"quantity":  quantity,
	}
	if variantID != "" {
		vars["variantId"] = variantID
	}
	if err := c.Exec(ctx, target, "AddToCart", addToCartMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.AddToCart, nil
}

// UpdateCartItem sets the absolute quantity for one line item.
func (c *Client) UpdateCartItem(ctx context.Context, target Target, sessionID, productID, variantID string, quantity int) (*CartPayload, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	var out struct {
		UpdateCartItem CartPayload `json:"updateCartItem"`
	}
	vars := map[string]any{
		"sessionId": sessionID,
		"productId": productID,
		"quantity":  quantity,
	}
	if variantID != "" {
		vars["variantId"] = variantID
	}
	if err := c.Exec(ctx, target, "UpdateCartItem", updateCartItemMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.UpdateCartItem, nil
}

// RemoveFromCart removes one line item.
func (c *Client) RemoveFromCart(ctx context.Context, target Target, sessionID, productID, variantID string) (*CartPayload, error) {
	var out struct {
		RemoveFromCart CartPayload `json:"removeFromCart"`
	}
	vars := map[string]any{
		"sessionId": sessionID,
		"productId": productID,
	}
	if variantID != "" {
		vars["variantId"] = variantID
	}
	if err := c.Exec(ctx, target, "RemoveFromCart", removeFromCartMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.RemoveFromCart, nil
}

// ApplyDiscount applies a discount code to the cart.
func (c *Client) ApplyDiscount(ctx context.Context, target Target, sessionID, code string) (*CartPayload, error) {
	var out struct {
		ApplyDiscount CartPayload `json:"applyDiscount"`
	}
	vars := map[string]any{"sessionId": sessionID, "code": code}
	if err := c.Exec(ctx, target, "ApplyDiscount", applyDiscountMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.ApplyDiscount, nil
}

// RemoveDiscount removes the applied discount code.
func (c *Client) RemoveDiscount(ctx context.Context, target Target, sessionID string) (*CartPayload, error) {
	var out struct {
		RemoveDiscount CartPayload `json:"removeDiscount"`
	}
	vars := map[string]any{"sessionId": sessionID}
	if err := c.Exec(ctx, target, "RemoveDiscount", removeDiscountMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.RemoveDiscount, nil
}

// CustomerLogin authenticates a customer.
func (c *Client) CustomerLogin(ctx context.Context, target Target, email, password string) (*CustomerAuthPayload, error) {
	var out struct {
		CustomerLogin CustomerAuthPayload `json:"customerLogin"`
	}
	vars := map[string]any{"email": email, "password": password}
	if err := c.Exec(ctx, target, "CustomerLogin", customerLoginMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.CustomerLogin, nil
}

// ValidateCustomerSession revalidates a stored customer token.
func (c *Client) ValidateCustomerSession(ctx context.Context, target Target, token string) (*CustomerAuthPayload, error) {
	var out struct {
		ValidateCustomerSession CustomerAuthPayload `json:"validateCustomerSession"`
	}
	vars := map[string]any{"token": token}
	if err := c.Exec(ctx, target, "ValidateCustomerSession", validateCustomerSessionQuery, vars, &out); err != nil {
		return nil, err
	}
	return &out.ValidateCustomerSession, nil
}

// CustomerLogout revokes a customer token server-side.
func (c *Client) CustomerLogout(ctx context.Context, target Target, token string) (*LogoutPayload, error) {
	var out struct {
		CustomerLogout LogoutPayload `json:"customerLogout"`
	}
	vars := map[string]any{"token": token}
	if err := c.Exec(ctx, target, "CustomerLogout", customerLogoutMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.CustomerLogout, nil
}
