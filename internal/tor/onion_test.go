package tor

import (
	"strings"
	"testing"
)

// duckDuckGo's well-known v3 onion address, used as a known-good checksum.
const validV3 = "duckduckgogg42xjoc72x3sjasowoarfbgcmvfimaftt6twagswzczad.onion"

// TestIsValidV3Host tests v3 onion address validation including checksums.
func TestIsValidV3Host(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		want bool
	}{
		{"known good address", validV3, true},
		{"uppercase is normalized", strings.ToUpper(validV3), true},
		{"corrupted checksum", "duckduckgogg42xjoc72x3sjasowoarfbgcmvfimaftt6twagswzczaa.onion", false},
		{"wrong length", "short.onion", false},
		{"invalid base32 characters", strings.Repeat("1", 56) + ".onion", false},
		{"clearnet host", "example.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValidV3Host(tt.host); got != tt.want {
				t.Errorf("IsValidV3Host(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

// TestIsOnionHost tests the suffix check.
func TestIsOnionHost(t *testing.T) {
	t.Parallel()

	if !IsOnionHost("example.ONION") {
		t.Error("suffix check should ignore case")
	}
	if IsOnionHost("example.com") {
		t.Error("clearnet host reported as onion")
	}
}
