package cache

import (
	"testing"
	"time"

	"ai-studyaid-be/pkg/generation"
)

func result(text string) generation.Result {
	return generation.Result{Success: true, Text: text, MethodUsed: "gemini"}
}

func TestGetMissAndHit(t *testing.T) {
	c := NewResponseCache(time.Minute, 10)

	if _, ok := c.Get(1); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Set(1, result("hello"))
	got, ok := c.Get(1)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q, want %q", got.Text, "hello")
	}
}

func TestExpiryEvictsOnRead(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewResponseCache(time.Minute, 10).WithClock(func() time.Time { return current })

	c.Set(1, result("stale"))

	current = current.Add(time.Minute)
	if _, ok := c.Get(1); ok {
		t.Error("expired entry still served")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry eviction, want 0", c.Len())
	}
}

func TestCapacityEvictsInsertionOrder(t *testing.T) {
	c := NewResponseCache(time.Hour, 3)

	c.Set(1, result("a"))
	c.Set(2, result("b"))
	c.Set(3, result("c"))

	// Reading entry 1 must not protect it: eviction follows insertion
	// order, not read recency.
	if _, ok := c.Get(1); !ok {
		t.Fatal("entry 1 missing before overflow")
	}

	c.Set(4, result("d"))

	if _, ok := c.Get(1); ok {
		t.Error("earliest-inserted entry survived overflow")
	}
	for _, fp := range []uint64{2, 3, 4} {
		if _, ok := c.Get(fp); !ok {
			t.Errorf("entry %d unexpectedly evicted", fp)
		}
	}
}

func TestSetSameKeyRefreshesPosition(t *testing.T) {
	c := NewResponseCache(time.Hour, 2)

	c.Set(1, result("a"))
	c.Set(2, result("b"))
	c.Set(1, result("a2")) // re-insert moves 1 to the back of the order

	c.Set(3, result("c")) // overflow: 2 is now the oldest

	if _, ok := c.Get(2); ok {
		t.Error("entry 2 should have been evicted")
	}
	got, ok := c.Get(1)
	if !ok {
		t.Fatal("re-inserted entry evicted")
	}
	if got.Text != "a2" {
		t.Errorf("Text = %q, want refreshed value", got.Text)
	}
}

func TestFingerprintNormalizesWhitespace(t *testing.T) {
	params := generation.Parameters{MaxTokens: 1024, Temperature: 0.7, TopP: 0.95}

	a := Fingerprint(generation.OpSummary, &generation.Request{Text: "alpha   beta\n\tgamma"}, params)
	b := Fingerprint(generation.OpSummary, &generation.Request{Text: "alpha beta gamma"}, params)
	if a != b {
		t.Error("whitespace variants produced different fingerprints")
	}

	c := Fingerprint(generation.OpSummary, &generation.Request{Text: "alpha beta delta"}, params)
	if a == c {
		t.Error("different content produced identical fingerprints")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	params := generation.Parameters{MaxTokens: 1024, Temperature: 0.7, TopP: 0.95}
	req := &generation.Request{Text: "same text"}

	base := Fingerprint(generation.OpSummary, req, params)

	if got := Fingerprint(generation.OpQuiz, req, params); got == base {
		t.Error("operation kind not part of the fingerprint")
	}

	bumped := params
	bumped.Temperature = 0.9
	if got := Fingerprint(generation.OpSummary, req, bumped); got == base {
		t.Error("normalized parameters not part of the fingerprint")
	}

	withImage := &generation.Request{Text: "same text", ImageRef: "blob://img-1"}
	if got := Fingerprint(generation.OpSummary, withImage, params); got == base {
		t.Error("image reference not part of the fingerprint")
	}
}
