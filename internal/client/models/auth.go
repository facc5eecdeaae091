package models

// TokenPair is the rotating credential pair minted by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Complete reports whether both tokens are present.
func (p TokenPair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// AuthResponse is returned by login, register and refresh. User is optional
// on refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	User         *User  `json:"user,omitempty"`
}

func (r AuthResponse) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register. Phone is sent as null
// when not given.
type Registration struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type NameUpdate struct {
	FullName string `json:"full_name"`
}
