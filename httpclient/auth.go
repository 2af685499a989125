package httpclient

import "net/http"

// AuthConfig sets the Authorization header, or a custom header, on requests.
type AuthConfig struct {
	// Header defaults to Authorization.
	Header string
	// Scheme is prepended to Value with a space, e.g. "Bearer" or "Token".
	Scheme string
	Value  string
}

// BearerAuth authenticates with "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return SchemeAuth("Bearer", token)
}

// SchemeAuth authenticates with "Authorization: <scheme> <value>".
func SchemeAuth(scheme, value string) *AuthConfig {
	return &AuthConfig{Scheme: scheme, Value: value}
}

// HeaderAuth sends value verbatim in the named header.
func HeaderAuth(header, value string) *AuthConfig {
	return &AuthConfig{Header: header, Value: value}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Value == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	v := a.Value
	if a.Scheme != "" {
		v = a.Scheme + " " + v
	}
	req.Header.Set(header, v)
}
