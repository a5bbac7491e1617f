// Package messaging defines interfaces for pushing notices to storefronts.
package messaging

import "github.com/Izzycode820/huzilerz-go/internal/domain/commerce"

// Notifier is the surface services use to reach the shopper's UI: error
// toasts and cart refresh pushes.
type Notifier interface {
	NotifyError(storeID, clientKey, message string)
	NotifyCartUpdated(storeID, clientKey string, cart *commerce.Cart)
}

// Broadcaster manages per-shopper notice subscriptions.
type Broadcaster interface {
	Notifier
	AddClient(storeID, clientKey string) chan []byte
	RemoveClient(ch chan []byte, storeID, clientKey string)
	ClientCount(storeID, clientKey string) int
}
