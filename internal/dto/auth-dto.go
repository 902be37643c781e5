package dto

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
	Role     string `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// AuthResponse is the identity decoded from a verified access token.
type AuthResponse struct {
	Email  string  `json:"email"`
	Iat    float64 `json:"iat"`
	Expiry float64 `json:"expiry"`
}
