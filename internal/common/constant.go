package common

// Outbound request headers.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Keys of the persisted credential record.
const (
	KeyAccessToken        = "access_token"
	KeyRefreshToken       = "refresh_token"
	KeyUser               = "user"
	KeyRedirectAfterLogin = "redirect_after_login"
)

// Backend auth endpoints, relative to the API base URL.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathRefresh  = "/auth/refresh"
	PathLogout   = "/auth/logout"
	PathVerify   = "/auth/verify"
	PathMe       = "/auth/me"
)
