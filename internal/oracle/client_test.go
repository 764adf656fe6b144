package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVerifyExtractsNestedBool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"result":{"valid":true}}}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	valid, err := client.Verify(context.Background(), Job{
		Method: http.MethodGet,
		URL:    server.URL,
		Path:   "data.result.valid",
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !valid {
		t.Fatal("expected a true verdict")
	}
}

func TestVerifyStringVerdicts(t *testing.T) {
	for body, want := range map[string]bool{
		`{"valid":"true"}`:  true,
		`{"valid":"false"}`: false,
		`{"valid":false}`:   false,
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		client := NewClient(5 * time.Second)
		got, err := client.Verify(context.Background(), Job{Method: "GET", URL: server.URL, Path: "valid"})
		server.Close()
		if err != nil {
			t.Fatalf("verify %s: %v", body, err)
		}
		if got != want {
			t.Fatalf("verify %s: got %v, want %v", body, got, want)
		}
	}
}

func TestVerifyNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	if _, err := client.Verify(context.Background(), Job{Method: "GET", URL: server.URL, Path: "valid"}); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestExtractBoolErrors(t *testing.T) {
	body := map[string]any{
		"data": map[string]any{"valid": true, "count": float64(3)},
	}
	cases := []string{
		"data.missing",     // key absent
		"data.valid.more",  // descends through a non-object
		"data.count",       // value not a boolean
	}
	for _, path := range cases {
		if _, err := extractBool(body, path); err == nil {
			t.Fatalf("path %q: expected an error", path)
		}
	}
}
