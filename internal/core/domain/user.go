package domain

// User is the identity record for the signed-in account.
// There is at most one user per local profile; it is set on login or
// signup and cleared on logout.
type User struct {
	// ID is the backend identifier for the account (the token subject).
	ID string `json:"id"`

	// Name is the display name, falling back to the email local part
	// when the backend profile carries no name.
	Name string `json:"name"`

	// Email is the account email address.
	Email string `json:"email"`

	// Avatar is an optional picture URL.
	Avatar string `json:"avatar,omitempty"`
}

// Profile is the account profile as returned by the backend.
type Profile struct {
	// Sub is the token subject, used as the user ID.
	Sub string `json:"sub"`

	// Email is the account email address.
	Email string `json:"email"`

	// EmailVerified reports whether the backend has verified the email.
	EmailVerified bool `json:"email_verified"`

	// Name is the optional display name.
	Name string `json:"name,omitempty"`

	// Picture is the optional avatar URL.
	Picture string `json:"picture,omitempty"`
}

// TokenResponse is the backend's answer to a successful login.
type TokenResponse struct {
	// AccessToken is the bearer token for subsequent requests.
	AccessToken string `json:"access_token"`

	// IDToken is the optional OpenID Connect identity token.
	IDToken string `json:"id_token,omitempty"`

	// TokenType is the token scheme, always "Bearer" in practice.
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}
