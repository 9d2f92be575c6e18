package dto

import "time"

// ChallengeRequest asks for a login nonce.
type ChallengeRequest struct {
	Address string `json:"address"`
}

// ChallengeResponse carries the nonce and the exact message to sign.
type ChallengeResponse struct {
	Address   string    `json:"address"`
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyRequest proves key ownership with a base58 ed25519 signature.
type VerifyRequest struct {
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
