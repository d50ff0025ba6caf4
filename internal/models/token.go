package models

import "time"

// TokenResponse is returned by the login endpoints.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"` // Seconds until expiry
	IssuedAt    time.Time `json:"issued_at"`
}
