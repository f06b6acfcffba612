package domain

// Claims are the identity fields carried inside a session credential.
// They are read for display only; the client never validates a credential.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}
