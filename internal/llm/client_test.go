package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "午餐"})
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Model: "qwen2.5:7b", Timeout: 5 * time.Second})
	got, err := client.Generate(context.Background(), "translate lunch")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "午餐" {
		t.Errorf("got %q", got)
	}
	if gotReq.Model != "qwen2.5:7b" || gotReq.Stream {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Options == nil || gotReq.Options.Temperature != 0 {
		t.Errorf("temperature not pinned: %+v", gotReq.Options)
	}
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Model: "m", Timeout: 5 * time.Second})
	if _, err := client.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestGenerateModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Model: "m", Timeout: 5 * time.Second})
	if _, err := client.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected error from model error field")
	}
}

func TestUnloadSendsZeroKeepAlive(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Model: "m", Timeout: 5 * time.Second})
	if err := client.Unload(context.Background()); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if gotReq.KeepAlive == nil || *gotReq.KeepAlive != 0 {
		t.Errorf("keep_alive = %v, want 0", gotReq.KeepAlive)
	}
}
