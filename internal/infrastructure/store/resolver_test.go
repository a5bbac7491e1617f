package store

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testResolver(domains map[string][]string) *Resolver {
	registry := &Registry{Stores: make(map[string]StoreInfo)}
	for storeID, ds := range domains {
		registry.Stores[storeID] = StoreInfo{StoreID: storeID, Domains: ds, Status: "active"}
	}
	return &Resolver{registry: registry}
}

func requestContext(t *testing.T, target string, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestResolveHostPriority(t *testing.T) {
	r := testResolver(nil)

	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{
			name:    "header wins over everything",
			target:  "http://localhost:8080/api/v1/cart?store=acme",
			headers: map[string]string{"X-Storefront-Host": "shop.example.com"},
			want:    "shop.example.com",
		},
		{
			name:   "store query synthesizes platform hostname",
			target: "http://localhost:8080/api/v1/cart?store=acme",
			want:   "acme.huzilerz.shop",
		},
		{
			name:   "request host is the fallback, port stripped",
			target: "http://acme.huzilerz.shop:8080/api/v1/cart",
			want:   "acme.huzilerz.shop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := requestContext(t, tt.target, tt.headers)
			if got := r.ResolveHost(c); got != tt.want {
				t.Errorf("ResolveHost() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoreIDForHost(t *testing.T) {
	r := testResolver(map[string][]string{
		"acme":   {"shop.acme.com", "acme.huzilerz.shop"},
		"globex": {"globex.huzilerz.shop"},
	})

	tests := []struct {
		host string
		want string
	}{
		{"shop.acme.com", "acme"},             // custom domain
		{"acme.huzilerz.shop", "acme"},        // registered platform subdomain
		{"newstore.huzilerz.shop", "newstore"}, // unregistered slug still resolves
		{"deep.sub.huzilerz.shop", ""},        // nested subdomains never match
		{"huzilerz.shop", ""},                 // bare platform apex is no store
		{"unknown.example.com", ""},
	}

	for _, tt := range tests {
		if got := r.storeIDForHost(tt.host); got != tt.want {
			t.Errorf("storeIDForHost(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestWildcardDomain(t *testing.T) {
	r := testResolver(map[string][]string{"dev": {"*"}})
	if got := r.storeIDForHost("anything.example.com"); got != "dev" {
		t.Errorf("wildcard domain should match any host, got %q", got)
	}
}

func TestGetStoreStatus(t *testing.T) {
	r := testResolver(map[string][]string{"acme": {"acme.huzilerz.shop"}})
	if got := r.GetStoreStatus("acme"); got != "active" {
		t.Errorf("status = %q", got)
	}
	if got := r.GetStoreStatus("missing"); got != "unknown" {
		t.Errorf("status for missing store = %q", got)
	}
}
