package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newSearxFixture(t *testing.T, results []map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
	}))
}

func TestSearch_ReturnsOrderedURLs(t *testing.T) {
	srv := newSearxFixture(t, []map[string]string{
		{"title": "a", "url": "https://one.example/a"},
		{"title": "b", "url": "https://two.example/b"},
		{"title": "c", "url": "https://three.example/c"},
		{"title": "d", "url": "https://four.example/d"},
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	links, err := client.Search(context.Background(), "mars rover", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"https://one.example/a", "https://two.example/b", "https://three.example/c"}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d", len(want), len(links))
	}
	for i, u := range want {
		if links[i] != u {
			t.Errorf("link %d: expected %q, got %q", i, u, links[i])
		}
	}
}

func TestSearch_ExcludesOwnHost(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]string{
			{"title": "self", "url": srv.URL + "/about"},
			{"title": "real", "url": "https://example.org/page"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	links, err := client.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 || links[0] != "https://example.org/page" {
		t.Fatalf("expected only the external link, got %v", links)
	}
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]string{
			{"title": "ok", "url": "https://example.org/ok"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	links, err := client.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("expected recovery after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(links) != 1 {
		t.Errorf("expected 1 link, got %d", len(links))
	}
}

func TestSearch_ExhaustedRetriesReturnsError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Search(context.Background(), "query", 3); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts (1 + 3 retries), got %d", attempts)
	}
}

func TestSearch_EmptyResults(t *testing.T) {
	srv := newSearxFixture(t, nil)
	defer srv.Close()

	client := NewClient(srv.URL)
	links, err := client.Search(context.Background(), fmt.Sprintf("%030d", 7), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}
