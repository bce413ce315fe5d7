package types

import (
	"slices"
	"testing"
)

func TestAllowedOriginsReadsEnvAtCallTime(t *testing.T) {
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	before := AllowedOrigins()

	if slices.Contains(before, "https://app.example.com") {
		t.Fatal("Unexpected origin before env is set")
	}

	// Values appearing after process start (e.g. loaded from .env) must
	// still reach the whitelist.
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://one.example.com, https://two.example.com ,")

	origins := AllowedOrigins()

	for _, want := range []string{
		"https://app.example.com",
		"https://one.example.com",
		"https://two.example.com",
	} {
		if !slices.Contains(origins, want) {
			t.Errorf("Expected %s in origins, got %v", want, origins)
		}
	}

	if slices.Contains(origins, "") {
		t.Errorf("Empty origin slipped in: %v", origins)
	}
}

func TestAllowedOriginsIncludesDevDefaults(t *testing.T) {
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	origins := AllowedOrigins()

	if !slices.Contains(origins, "http://localhost:5173") {
		t.Errorf("Expected the dev server origin, got %v", origins)
	}
}
