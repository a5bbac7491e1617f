// Package commerce provides domain entities for the server-owned cart
// aggregate. The commerce backend is the single source of truth for every
// quantity and money amount; the gateway never computes totals. Monetary
// values travel as decimal strings and are only parsed for display.
package commerce

// LineItem is one cart line: a product reference, an optional variant
// reference, and a quantity that is never below one.
type LineItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LinePrice string `json:"linePrice"`

	// ThumbnailURL is a client-only enrichment: the backend mutation
	// responses do not echo it, so the cache merge carries it forward.
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	// Pending marks an optimistic placeholder line that has not yet been
	// confirmed by a backend response.
	Pending bool `json:"pending,omitempty"`
}

// Key returns the stable line-item identity used for cache merges and
// per-item debounce partitioning: the product+variant composite. Array
// position is never used as identity.
func (li *LineItem) Key() string {
	return ItemKey(li.ProductID, li.VariantID)
}

// ItemKey builds the product+variant composite key.
func ItemKey(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "/" + variantID
}

// Cart is the server-owned aggregate keyed by the guest session identifier.
type Cart struct {
	ID             string     `json:"id"`
	Items          []LineItem `json:"items"`
	DiscountCode   string     `json:"discountCode,omitempty"`
	Subtotal       string     `json:"subtotal"`
	DiscountAmount string     `json:"discountAmount,omitempty"`
	Total          string     `json:"total"`
	Currency       string     `json:"currency,omitempty"`
}

// Item returns the line matching the composite key, or nil.
func (c *Cart) Item(key string) *LineItem {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return &c.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Cache reads hand out clones so callers cannot
// mutate the cached snapshot in place.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Items = make([]LineItem, len(c.Items))
	copy(dup.Items, c.Items)
	return &dup
}
