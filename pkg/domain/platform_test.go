package domain

import "testing"

func TestValidPlatform(t *testing.T) {
	tests := []struct {
		name  string
		p     Platform
		valid bool
	}{
		{"valid meta", PlatformMeta, true},
		{"valid tiktok", PlatformTikTok, true},
		{"valid snapchat", PlatformSnapchat, true},
		{"invalid empty", "", false},
		{"invalid lowercase", "meta", false},
		{"invalid unknown", "MySpace", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPlatform(tt.p); got != tt.valid {
				t.Errorf("ValidPlatform(%q) = %v, want %v", tt.p, got, tt.valid)
			}
		})
	}
}

func TestPlatformProviderRoundTrip(t *testing.T) {
	for _, p := range Platforms {
		prov := p.Provider()
		if prov == "" {
			t.Fatalf("%q has no provider", p)
		}
		if got := prov.Platform(); got != p {
			t.Errorf("%q.Platform() = %q, want %q", prov, got, p)
		}
	}
	if got := Platform("MySpace").Provider(); got != "" {
		t.Errorf("unknown platform provider = %q, want empty", got)
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
		ok   bool
	}{
		{"meta", ProviderMeta, true},
		{"TikTok", ProviderTikTok, true},
		{" snapchat ", ProviderSnapchat, true},
		{"github", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseProvider(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseProvider(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAccountPlatforms(t *testing.T) {
	accounts := []Account{
		{Platform: PlatformTikTok, Username: "a"},
		{Platform: PlatformMeta, Username: "b"},
		{Platform: PlatformTikTok, Username: "c"},
		{Platform: "", Username: "d"},
	}
	got := AccountPlatforms(accounts)
	if len(got) != 2 || got[0] != PlatformTikTok || got[1] != PlatformMeta {
		t.Errorf("AccountPlatforms() = %v, want [TikTok Meta]", got)
	}
}

func TestFollowerCountClamped(t *testing.T) {
	if got := (Account{Followers: -5}).FollowerCount(); got != 0 {
		t.Errorf("FollowerCount() = %d, want 0", got)
	}
	if got := (Account{Followers: 1200}).FollowerCount(); got != 1200 {
		t.Errorf("FollowerCount() = %d, want 1200", got)
	}
}
