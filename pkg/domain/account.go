package domain

// Account is a connected social-media account as reported by the account service.
type Account struct {
	PlatformUserID string   `json:"platformUserId"`
	Platform       Platform `json:"platform"`
	Username       string   `json:"username"`
	Followers      int64    `json:"followers"`
	ProfilePic     string   `json:"profilePic"`
	UserID         string   `json:"userId,omitempty"`
	TenantID       string   `json:"tenantId,omitempty"`
}

// FollowerCount returns Followers clamped at zero.
func (a Account) FollowerCount() int64 {
	if a.Followers < 0 {
		return 0
	}
	return a.Followers
}

// AccountPlatforms returns the distinct platforms of accounts, in order of first appearance.
func AccountPlatforms(accounts []Account) []Platform {
	seen := make(map[Platform]bool, len(accounts))
	var out []Platform
	for _, a := range accounts {
		if a.Platform == "" || seen[a.Platform] {
			continue
		}
		seen[a.Platform] = true
		out = append(out, a.Platform)
	}
	return out
}
