package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// Settings is the persisted upstream configuration. The frontend sends
// camelCase keys; the file on disk uses snake_case, matching what
// earlier releases wrote.
type Settings struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// Service owns the upstream credentials and the preloaded model list.
// All reads go through the mutex so a concurrent save is never observed
// half-applied.
type Service struct {
	mu      sync.RWMutex
	path    string
	apiKey  string
	baseURL string
	models  []string

	httpClient *http.Client
}

// NewService creates the settings service backed by the given file.
// The file not existing yet is not an error.
func NewService(path string) *Service {
	return &Service{
		path: path,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Load reads the settings file into memory. Missing or unreadable
// files leave the service unconfigured.
func (s *Service) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ [SETTINGS] Failed to read %s: %v", s.path, err)
		}
		return
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("⚠️ [SETTINGS] Failed to parse %s: %v", s.path, err)
		return
	}

	s.mu.Lock()
	s.apiKey = loaded.APIKey
	s.baseURL = loaded.BaseURL
	s.mu.Unlock()

	log.Printf("✅ [SETTINGS] Loaded settings from %s", s.path)
}

// Save replaces the stored credentials wholesale, persists them and
// refreshes the model list against the new upstream.
func (s *Service) Save(ctx context.Context, apiKey, baseURL string) error {
	data, err := json.Marshal(Settings{APIKey: apiKey, BaseURL: baseURL})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	s.mu.Lock()
	s.apiKey = apiKey
	s.baseURL = baseURL
	s.mu.Unlock()

	if err := s.RefreshModels(ctx); err != nil {
		log.Printf("⚠️ [SETTINGS] Model refresh after save failed: %v", err)
	}
	return nil
}

// Credentials returns the current API key and base URL. ok is false
// when either is missing.
func (s *Service) Credentials() (apiKey, baseURL string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey, s.baseURL, s.apiKey != "" && s.baseURL != ""
}

// Models returns the preloaded model IDs.
func (s *Service) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.models))
	copy(out, s.models)
	return out
}

// RefreshModels fetches the model list from the upstream /models
// endpoint. An unconfigured service clears the list without error.
func (s *Service) RefreshModels(ctx context.Context) error {
	apiKey, baseURL, ok := s.Credentials()
	if !ok {
		s.mu.Lock()
		s.models = nil
		s.mu.Unlock()
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model list returned HTTP %d", resp.StatusCode)
	}

	ids, err := parseModelIDs(json.NewDecoder(resp.Body))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.models = ids
	s.mu.Unlock()

	log.Printf("✅ [SETTINGS] Preloaded %d models", len(ids))
	return nil
}

// parseModelIDs accepts both OpenAI-style {"data": [...]} envelopes and
// bare arrays, collecting the "id" field of each entry.
func parseModelIDs(dec *json.Decoder) ([]string, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse model list: %w", err)
	}

	type model struct {
		ID string `json:"id"`
	}

	var entries []model
	if err := json.Unmarshal(raw, &entries); err != nil {
		var envelope struct {
			Data []model `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("unexpected model list format")
		}
		entries = envelope.Data
	}

	ids := make([]string, 0, len(entries))
	for _, m := range entries {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}
