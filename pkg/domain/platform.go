package domain

import "strings"

// Platform is one of the supported social networks.
type Platform string

const (
	PlatformMeta     Platform = "Meta"
	PlatformTikTok   Platform = "TikTok"
	PlatformSnapchat Platform = "Snapchat"
)

// Platforms in display order.
var Platforms = []Platform{PlatformMeta, PlatformTikTok, PlatformSnapchat}

// ValidPlatform returns true if p is a known platform.
func ValidPlatform(p Platform) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Provider is the identity-provider slug used in login URLs.
type Provider string

const (
	ProviderMeta     Provider = "meta"
	ProviderTikTok   Provider = "tiktok"
	ProviderSnapchat Provider = "snapchat"
)

// Provider returns the login slug for p, or "" for an unknown platform.
func (p Platform) Provider() Provider {
	if !ValidPlatform(p) {
		return ""
	}
	return Provider(strings.ToLower(string(p)))
}

// Platform returns the platform behind a provider slug, or "" if unknown.
func (p Provider) Platform() Platform {
	for _, known := range Platforms {
		if known.Provider() == p {
			return known
		}
	}
	return ""
}

// ParseProvider accepts a slug or platform name in any case.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p.Platform() == "" {
		return "", false
	}
	return p, true
}
