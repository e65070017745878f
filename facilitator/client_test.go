package facilitator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	x402 "github.com/lattice-works/x402gateway"
)

func samplePayload() x402.PaymentPayload {
	return x402.PaymentPayload{
		X402Version: 1,
		Scheme:      "exact",
		Network:     "base-sepolia",
		Payload:     json.RawMessage(`{}`),
	}
}

func sampleRequirement() x402.PaymentRequirement {
	return x402.PaymentRequirement{
		Scheme:            "exact",
		Network:           "base-sepolia",
		MaxAmountRequired: "1000",
		Asset:             "0xAsset",
		PayTo:             "0xPayTo",
		Resource:          "https://example.com/resource",
		MaxTimeoutSeconds: 30,
	}
}

func TestClientVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(VerifyResponse{IsValid: true, Payer: "0xPayer"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Verify(context.Background(), samplePayload(), sampleRequirement())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.IsValid {
		t.Fatal("expected IsValid=true")
	}
	if resp.Payer != "0xPayer" {
		t.Fatalf("Payer = %q, want 0xPayer", resp.Payer)
	}
}

func TestClientVerifyRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(VerifyResponse{IsValid: false, InvalidReason: "insufficient funds"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Verify(context.Background(), samplePayload(), sampleRequirement())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.IsValid {
		t.Fatal("expected IsValid=false")
	}
	if resp.InvalidReason != "insufficient funds" {
		t.Fatalf("InvalidReason = %q", resp.InvalidReason)
	}
}

func TestClientVerifyNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Verify(context.Background(), samplePayload(), sampleRequirement())
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *HTTPError
	if !asHTTPError(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", httpErr.Status)
	}
}

func TestClientSettleSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/settle" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(x402.SettlementResponse{
			Success:     true,
			Transaction: "0xTX",
			Network:     "base-sepolia",
			Payer:       "0xPayer",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Settle(context.Background(), samplePayload(), sampleRequirement())
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected Success=true")
	}
}

func TestClientSupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(SupportedResponse{
			Kinds: []x402.Kind{{Scheme: "exact", Network: "base-sepolia"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Supported(context.Background())
	if err != nil {
		t.Fatalf("Supported: %v", err)
	}
	if len(resp.Kinds) != 1 || resp.Kinds[0].Scheme != "exact" {
		t.Fatalf("unexpected kinds: %+v", resp.Kinds)
	}
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(VerifyResponse{IsValid: true})
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	if _, err := client.Verify(context.Background(), samplePayload(), sampleRequirement()); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotPath != "/verify" {
		t.Fatalf("path = %q, want /verify (no double slash)", gotPath)
	}
}

func asHTTPError(err error, target **HTTPError) bool {
	he, ok := err.(*HTTPError)
	if !ok {
		return false
	}
	*target = he
	return true
}
