package models

import "time"

// Credential holds per-user, per-service authentication material. Which
// fields are set depends on the service: OAuth services carry access and
// refresh tokens, API-key services carry a single key.
type Credential struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"      validate:"required"`
	ServiceName  string     `json:"service_name" validate:"required"`
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	APIKey       string     `json:"api_key,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Token returns the credential's usable secret, whichever field carries it.
func (c *Credential) Token() string {
	if c.AccessToken != "" {
		return c.AccessToken
	}

	return c.APIKey
}
