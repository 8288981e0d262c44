package report

import (
	"strings"
	"testing"
)

func TestBuildKeyIsDeterministic(t *testing.T) {
	a := buildKey("abc123", "oneshot", "elias-gamma")
	b := buildKey("abc123", "oneshot", "elias-gamma")
	if a != b {
		t.Fatalf("same inputs produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, keyPrefix) {
		t.Fatalf("key %q missing prefix %q", a, keyPrefix)
	}
}

func TestBuildKeySeparatesCodecPairs(t *testing.T) {
	keys := map[string]string{
		"swap":      buildKey("abc123", "elias-gamma", "oneshot"),
		"base":      buildKey("abc123", "oneshot", "elias-gamma"),
		"dataset":   buildKey("def456", "oneshot", "elias-gamma"),
		"gap_codec": buildKey("abc123", "variable-byte", "elias-gamma"),
	}
	seen := make(map[string]string)
	for name, key := range keys {
		if other, dup := seen[key]; dup {
			t.Fatalf("key collision between %s and %s: %q", name, other, key)
		}
		seen[key] = name
	}
}
