package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileLeavesUnconfigured(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "settings.json"))
	svc.Load()
	if _, _, ok := svc.Credentials(); ok {
		t.Error("expected unconfigured service")
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"id": "gpt-4"}, {"id": "gpt-3.5-turbo"}},
		})
	}))
	defer upstream.Close()

	path := filepath.Join(t.TempDir(), "settings.json")
	svc := NewService(path)

	if err := svc.Save(context.Background(), "sk-test", upstream.URL); err != nil {
		t.Fatalf("Save: %v", err)
	}

	apiKey, baseURL, ok := svc.Credentials()
	if !ok || apiKey != "sk-test" || baseURL != upstream.URL {
		t.Errorf("credentials not applied: %q %q %v", apiKey, baseURL, ok)
	}

	models := svc.Models()
	if len(models) != 2 || models[0] != "gpt-4" {
		t.Errorf("models not preloaded: %v", models)
	}

	// A fresh service reading the same file sees the saved values.
	reloaded := NewService(path)
	reloaded.Load()
	apiKey, baseURL, ok = reloaded.Credentials()
	if !ok || apiKey != "sk-test" || baseURL != upstream.URL {
		t.Errorf("reload mismatch: %q %q %v", apiKey, baseURL, ok)
	}
}

func TestRefreshModels_BareArrayFormat(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": "llama-3"}, {"id": "mistral"}]`)
	}))
	defer upstream.Close()

	path := filepath.Join(t.TempDir(), "settings.json")
	data, _ := json.Marshal(Settings{APIKey: "k", BaseURL: upstream.URL})
	os.WriteFile(path, data, 0600)

	svc := NewService(path)
	svc.Load()
	if err := svc.RefreshModels(context.Background()); err != nil {
		t.Fatalf("RefreshModels: %v", err)
	}
	models := svc.Models()
	if len(models) != 2 || models[1] != "mistral" {
		t.Errorf("got %v", models)
	}
}

func TestRefreshModels_UnconfiguredClearsList(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "settings.json"))
	svc.models = []string{"stale"}
	if err := svc.RefreshModels(context.Background()); err != nil {
		t.Fatalf("RefreshModels: %v", err)
	}
	if len(svc.Models()) != 0 {
		t.Error("expected cleared model list")
	}
}
