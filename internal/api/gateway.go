package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/luis5368/web-clinica-medica/internal/api/metrics"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
)

// restGateway is the transport half of one resource collection: plain
// request/response against METHOD /api/{resource}[/:id], wire shapes in and
// out, no caching and no mapping.
type restGateway[W any] struct {
	client *Client
	path   string
}

// NewResourceGateway returns the gateway for one resource collection at path
// (e.g. "/api/pacientes") speaking wire shape W.
func NewResourceGateway[W any](client *Client, path string) ports.ResourceGateway[W] {
	return &restGateway[W]{client: client, path: path}
}

func (g *restGateway[W]) List(ctx context.Context) ([]W, error) {
	var out []W
	if err := g.client.do(ctx, http.MethodGet, g.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *restGateway[W]) Create(ctx context.Context, rec W) (W, error) {
	var out W
	if err := g.client.do(ctx, http.MethodPost, g.path, rec, &out); err != nil {
		var zero W
		return zero, err
	}
	return out, nil
}

func (g *restGateway[W]) Update(ctx context.Context, id int64, rec W) (W, error) {
	var out W
	if err := g.client.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", g.path, id), rec, &out); err != nil {
		var zero W
		return zero, err
	}
	return out, nil
}

func (g *restGateway[W]) Delete(ctx context.Context, id int64) error {
	return g.client.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", g.path, id), nil, nil)
}

// AuthGateway implements the login call against POST /auth/login.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Role string `json:"role"`
	} `json:"user"`
}

// Login exchanges credentials for a session. A 401 here means the credentials
// were rejected, never that a session died — there was no session on the
// request to begin with.
func (g *AuthGateway) Login(ctx context.Context, username, password string) (domain.Session, error) {
	var resp loginResponse
	err := g.client.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalidated) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return domain.Session{}, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return domain.Session{}, err
	}

	if resp.Token == "" || resp.User.Role == "" {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return domain.Session{}, fmt.Errorf("login response missing token or role")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return domain.Session{Token: resp.Token, Role: domain.Role(resp.User.Role)}, nil
}
