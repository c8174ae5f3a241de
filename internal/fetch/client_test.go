package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetchSendsBasicAuth(t *testing.T) {
	var gotLogin, gotPassword string
	var gotOK bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLogin, gotPassword, gotOK = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient("jdoe", "s3cret", 5*time.Second)
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !gotOK || gotLogin != "jdoe" || gotPassword != "s3cret" {
		t.Errorf("Expected Basic auth jdoe/s3cret, got %s/%s (ok=%v)", gotLogin, gotPassword, gotOK)
	}
	if arr, ok := body.([]any); !ok || len(arr) != 0 {
		t.Errorf("Expected empty JSON array, got %T %v", body, body)
	}
}

func TestClientFetchPreservesNumberLiterals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"value":131.7},{"value":131}]`))
	}))
	defer server.Close()

	client := NewClient("l", "p", 5*time.Second)
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	arr := body.([]any)
	first := arr[0].(map[string]any)["value"]
	if n, ok := first.(json.Number); !ok || n.String() != "131.7" {
		t.Errorf("Expected json.Number 131.7, got %T %v", first, first)
	}
	second := arr[1].(map[string]any)["value"]
	if n, ok := second.(json.Number); !ok || n.String() != "131" {
		t.Errorf("Expected json.Number 131, got %T %v", second, second)
	}
}

func TestClientFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("l", "p", 5*time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
}

func TestClientFetchConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient("l", "p", 1*time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
}

func TestClientFetchInvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	client := NewClient("l", "p", 5*time.Second)
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Expected ErrInvalidPayload, got %v", err)
	}
}
