package apiclient

import (
	"context"
	"net/http"

	"trainerhub/app/internal/authstate"
	"trainerhub/app/internal/domain"
)

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenRequest exchanges credentials for a bearer token. Name (and Role)
// register the account first when the email is unknown.
type TokenRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

type TokenResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	AccessToken string      `json:"accessToken"`
}

// Register creates an account. The server sets the session cookie.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: in, kind: authCall}, &user); err != nil {
		return nil, err
	}
	c.session.Reset()
	return &user, nil
}

// Login signs in with the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/login", body: LoginRequest{Email: email, Password: password}, kind: authCall}, &user); err != nil {
		return nil, err
	}
	c.session.Reset()
	return &user, nil
}

// ExchangeToken obtains a bearer token and keeps it on the session for later calls.
func (c *Client) ExchangeToken(ctx context.Context, in TokenRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/jwt", body: in, kind: authCall}, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, ErrMalformedResponse
	}
	c.session.Reset()
	c.session.SetToken(out.AccessToken)
	return &out, nil
}

// Me asks the server who the current session belongs to. It satisfies
// authprobe.Checker; a 401 here does not sign the session out.
func (c *Client) Me(ctx context.Context) (*authstate.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me", kind: authCall}, &user); err != nil {
		return nil, err
	}
	return &authstate.User{ID: user.ID.Hex(), Name: user.Name, Email: user.Email, Role: string(user.Role)}, nil
}

// Logout revokes the session server-side, then clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout", kind: authCall}, nil)
	c.session.SignOut()
	return err
}
