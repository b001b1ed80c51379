package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestCacheTag(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "dev", "abc123"
	if got := CacheTag(); got != "dev+abc123" {
		t.Errorf("CacheTag() = %q, want dev+abc123", got)
	}

	Version = "v1.2.0"
	if got := CacheTag(); got != "v1.2.0" {
		t.Errorf("CacheTag() = %q, want v1.2.0", got)
	}
}
