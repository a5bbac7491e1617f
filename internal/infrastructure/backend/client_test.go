package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recordedRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// newGraphQLServer returns an httptest server replying with the given body
// and captures each decoded request.
func newGraphQLServer(t *testing.T, respond func(req recordedRequest) (int, string)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recordedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("malformed request body: %v", err)
		}
		requests = append(requests, req)
		status, body := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestExecDecodesData(t *testing.T) {
	srv, requests := newGraphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"cart":{"success":true,"cart":{"id":"cart_1","items":[],"subtotal":"0.00","total":"0.00"}}}}`
	})

	client := NewClient(srv.URL, 2*time.Second, nil)
	payload, err := client.GetCart(context.Background(), Target{}, "sess_1")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if !payload.Success || payload.Cart.ID != "cart_1" {
		t.Errorf("payload = %+v", payload)
	}

	req := (*requests)[0]
	if req.OperationName != "GetCart" {
		t.Errorf("operationName = %q", req.OperationName)
	}
	if req.Variables["sessionId"] != "sess_1" {
		t.Errorf("variables = %v", req.Variables)
	}
}

func TestExecSendsStorefrontHeaders(t *testing.T) {
	var gotHost, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Header.Get(HeaderStorefrontHost)
		gotRequestID = r.Header.Get(HeaderRequestID)
		w.Write([]byte(`{"data":{"createCart":{"success":true,"sessionId":"s","expiresAt":"2026-09-08T00:00:00Z"}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second, nil)
	if _, err := client.CreateCart(context.Background(), Target{StorefrontHost: "acme.huzilerz.shop"}); err != nil {
		t.Fatalf("CreateCart: %v", err)
	}
	if gotHost != "acme.huzilerz.shop" {
		t.Errorf("storefront host header = %q", gotHost)
	}
	if gotRequestID == "" {
		t.Error("request id header missing")
	}
}

func TestExecGraphQLErrorsSurfaceAsError(t *testing.T) {
	srv, _ := newGraphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"errors":[{"message":"session not found"}]}`
	})

	client := NewClient(srv.URL, 2*time.Second, nil)
	if _, err := client.GetCart(context.Background(), Target{}, "sess_x"); err == nil {
		t.Fatal("GraphQL errors must surface as a returned error")
	}
}

func TestExecNonOKStatus(t *testing.T) {
	srv, _ := newGraphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusBadGateway, `upstream down`
	})

	client := NewClient(srv.URL, 2*time.Second, nil)
	if _, err := client.GetCart(context.Background(), Target{}, "sess_x"); err == nil {
		t.Fatal("non-2xx status must surface as an error")
	}
}

func TestExecBackendFailurePayloadIsNotAnError(t *testing.T) {
	srv, _ := newGraphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"applyDiscount":{"success":false,"error":"invalid code"}}}`
	})

	client := NewClient(srv.URL, 2*time.Second, nil)
	payload, err := client.ApplyDiscount(context.Background(), Target{}, "sess_1", "BOGUS")
	if err != nil {
		t.Fatalf("Success=false payload must not be a transport error: %v", err)
	}
	if payload.Success || payload.Error != "invalid code" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestUpdateCartItemRejectsQuantityBelowOne(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)
	if _, err := client.UpdateCartItem(context.Background(), Target{}, "sess_1", "prod_1", "", 0); err == nil {
		t.Fatal("quantity zero must be rejected before any network call")
	}
}

func TestTargetEndpointOverride(t *testing.T) {
	hit := false
	override := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.Write([]byte(`{"data":{"customerLogout":{"success":true}}}`))
	}))
	defer override.Close()

	client := NewClient("http://default-endpoint.invalid", 2*time.Second, nil)
	if _, err := client.CustomerLogout(context.Background(), Target{Endpoint: override.URL}, "tok"); err != nil {
		t.Fatalf("CustomerLogout: %v", err)
	}
	if !hit {
		t.Error("per-target endpoint was not used")
	}
}
