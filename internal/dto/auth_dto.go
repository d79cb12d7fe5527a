package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PinLoginRequest struct {
	PIN string `json:"pin" validate:"required,min=4,max=12"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}
