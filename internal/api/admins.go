package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// Credentials is an admin login or account body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Admin struct {
		Email string `json:"email"`
	} `json:"admin"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	anon := *c
	anon.token = ""

	var out LoginResult
	if err := anon.do(ctx, http.MethodPost, "/admin/login", creds, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" {
		return LoginResult{}, fmt.Errorf("login: response carried no token")
	}
	if out.Admin.Email == "" {
		out.Admin.Email = creds.Email
	}
	return out, nil
}

// ListAdmins returns every admin account.
func (c *Client) ListAdmins(ctx context.Context) ([]leads.Admin, error) {
	var out []leads.Admin
	if err := c.do(ctx, http.MethodGet, "/admin", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAdmin creates an account.
func (c *Client) CreateAdmin(ctx context.Context, creds Credentials) error {
	return c.do(ctx, http.MethodPost, "/admin", creds, nil)
}

// UpdateAdmin changes an account's email and, when set, its password.
func (c *Client) UpdateAdmin(ctx context.Context, id string, creds Credentials) error {
	return c.do(ctx, http.MethodPut, "/admin/"+pathID(id), creds, nil)
}

// DeleteAdmin removes an account. Callers guard the protected account.
func (c *Client) DeleteAdmin(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/"+pathID(id), nil, nil)
}
