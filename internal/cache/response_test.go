package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SlySlayer32/Youtubeseoai/internal/models"
)

func TestKey_Deterministic(t *testing.T) {
	params := map[string]models.ParamValue{
		"temperature": models.NumberParam(0.7),
		"max_tokens":  models.NumberParam(512),
	}
	k1 := Key("hello", "gpt-4", params)
	k2 := Key("hello", "gpt-4", params)
	if k1 != k2 {
		t.Errorf("same request produced different keys: %q vs %q", k1, k2)
	}
	if !strings.HasPrefix(k1, "chat:response:") {
		t.Errorf("key missing namespace prefix: %q", k1)
	}
}

func TestKey_ParameterOrderDoesNotMatter(t *testing.T) {
	a := map[string]models.ParamValue{
		"temperature": models.NumberParam(0.7),
		"top_p":       models.NumberParam(0.9),
		"max_tokens":  models.NumberParam(512),
	}
	b := map[string]models.ParamValue{
		"max_tokens":  models.NumberParam(512),
		"top_p":       models.NumberParam(0.9),
		"temperature": models.NumberParam(0.7),
	}
	if Key("hello", "gpt-4", a) != Key("hello", "gpt-4", b) {
		t.Error("keys differ for identical parameters in different insertion order")
	}
}

func TestKey_SensitiveToEveryField(t *testing.T) {
	params := map[string]models.ParamValue{"temperature": models.NumberParam(0.7)}
	base := Key("hello", "gpt-4", params)

	if Key("hello!", "gpt-4", params) == base {
		t.Error("message change did not change key")
	}
	if Key("hello", "gpt-3.5", params) == base {
		t.Error("model change did not change key")
	}
	other := map[string]models.ParamValue{"temperature": models.NumberParam(0.8)}
	if Key("hello", "gpt-4", other) == base {
		t.Error("parameter change did not change key")
	}
}

func TestResponseCache_StoreThenLookup(t *testing.T) {
	c := NewResponseCache(NewMemoryStore())
	ctx := context.Background()
	key := Key("hello", "gpt-4", nil)

	if _, found := c.Lookup(ctx, key); found {
		t.Fatal("unexpected hit before store")
	}

	c.Store(ctx, key, "Hi there!")

	got, found := c.Lookup(ctx, key)
	if !found {
		t.Fatal("expected hit after store")
	}
	if got != "Hi there!" {
		t.Errorf("got %q", got)
	}

	// Repeat lookups must not consume the entry.
	if _, found := c.Lookup(ctx, key); !found {
		t.Error("second lookup missed")
	}
}

func TestResponseCache_LastWriteWins(t *testing.T) {
	c := NewResponseCache(NewMemoryStore())
	ctx := context.Background()
	key := Key("hello", "gpt-4", nil)

	c.Store(ctx, key, "first")
	c.Store(ctx, key, "second")

	got, _ := c.Lookup(ctx, key)
	if got != "second" {
		t.Errorf("expected last write to win, got %q", got)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("backend down")
}

func TestResponseCache_BackendFailureDegradesToMiss(t *testing.T) {
	c := NewResponseCache(failingStore{})
	ctx := context.Background()
	key := Key("hello", "gpt-4", nil)

	c.Store(ctx, key, "response")
	if _, found := c.Lookup(ctx, key); found {
		t.Error("failing backend must report a miss")
	}
}
