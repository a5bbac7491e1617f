package types

import (
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
)

// ItemEnrichment carries client-only per-line fields the backend mutation
// responses do not echo back, keyed by the product+variant composite key.
type ItemEnrichment struct {
	ThumbnailURL string
}

// CartSnapshot is the cached cart view for one guest session: the last
// authoritative cart from the backend plus the enrichment map carried across
// round trips.
type CartSnapshot struct {
	Cart        *commerce.Cart
	Enrichments map[string]ItemEnrichment
	LastLoaded  time.Time
}

// ApplyEnrichments writes the carried fields into the cart's line items,
// matching by composite key so server-side reordering cannot corrupt the
// displayed media.
func (s *CartSnapshot) ApplyEnrichments() {
	if s.Cart == nil || len(s.Enrichments) == 0 {
		return
	}
	for i := range s.Cart.Items {
		if e, ok := s.Enrichments[s.Cart.Items[i].Key()]; ok {
			if s.Cart.Items[i].ThumbnailURL == "" {
				s.Cart.Items[i].ThumbnailURL = e.ThumbnailURL
			}
		}
	}
}

// StoreCartCache holds all cart snapshots for one store, keyed by guest
// session id.
type StoreCartCache struct {
	Carts      map[string]*CartSnapshot
	LastLoaded time.Time
}
