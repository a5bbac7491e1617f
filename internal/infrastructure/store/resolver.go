package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Resolver maps an incoming request to a store identity.
type Resolver struct {
	registry *Registry
	logger   *logging.ChanneledLogger
}

// NewResolver creates a resolver backed by the on-disk registry.
func NewResolver(logger *logging.ChanneledLogger) (*Resolver, error) {
	registry, err := LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load store registry: %w", err)
	}
	return &Resolver{registry: registry, logger: logger}, nil
}

// ResolveHost determines the storefront hostname for a request. Priority:
// the X-Storefront-Host header set by the hosting frontend, then the
// ?store=slug local-development synthesis, then the request Host itself.
func (r *Resolver) ResolveHost(c *gin.Context) string {
	if host := c.GetHeader("X-Storefront-Host"); host != "" {
		return host
	}
	if slug := c.Query("store"); slug != "" {
		return SynthesizeHostname(slug)
	}
	host := c.Request.Host
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}

// ResolveStore extracts the store ID from a request, auto-registering a
// store whose config directory exists but which the registry has not seen.
func (r *Resolver) ResolveStore(c *gin.Context) (string, string, error) {
	host := r.ResolveHost(c)

	storeID := r.storeIDForHost(host)
	if storeID == "" {
		return "", "", fmt.Errorf("no store matches host %q", host)
	}

	if _, exists := r.registry.Stores[storeID]; !exists {
		if !r.hasConfigDirectory(storeID) {
			return "", "", fmt.Errorf("unknown store: %s", storeID)
		}
		info := StoreInfo{
			StoreID: storeID,
			Domains: []string{host},
			Status:  "active",
		}
		if err := RegisterStore(info); err != nil {
			return "", "", fmt.Errorf("failed to auto-register store %s: %w", storeID, err)
		}
		r.registry.Stores[storeID] = info
		if r.logger != nil {
			r.logger.Store().Info("Auto-registered store", "storeId", storeID, "host", host)
		}
	}

	return storeID, host, nil
}

// storeIDForHost matches a hostname against registry domains, falling back
// to the subdomain slug on the platform suffix.
func (r *Resolver) storeIDForHost(host string) string {
	for storeID, info := range r.registry.Stores {
		for _, domain := range info.Domains {
			if domain == host || domain == "*" {
				return storeID
			}
		}
	}

	suffix := "." + config.StorefrontDomainSuffix
	if strings.HasSuffix(host, suffix) {
		slug := strings.TrimSuffix(host, suffix)
		if slug != "" && !strings.Contains(slug, ".") {
			return slug
		}
	}
	return ""
}

func (r *Resolver) hasConfigDirectory(storeID string) bool {
	root, err := configRoot()
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(root, storeID)); err == nil {
		return true
	}
	return false
}

// GetRegistry exposes the registry for the sysop surface.
func (r *Resolver) GetRegistry() *Registry {
	return r.registry
}

// RefreshRegistry reloads the registry from disk.
func (r *Resolver) RefreshRegistry() error {
	registry, err := LoadRegistry()
	if err != nil {
		return err
	}
	r.registry = registry
	return nil
}

// GetStoreStatus returns the registry status for a store.
func (r *Resolver) GetStoreStatus(storeID string) string {
	if info, exists := r.registry.Stores[storeID]; exists {
		return info.Status
	}
	return "unknown"
}
