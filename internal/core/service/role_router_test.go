package service

import (
	"errors"
	"testing"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
)

type namedSurface string

func (s namedSurface) Name() string { return string(s) }

func newTestRouter(t *testing.T) *RoleRouter {
	t.Helper()
	router := NewRoleRouter(namedSurface("login"), namedSurface("fallback"))
	for _, role := range []domain.Role{
		domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleReception,
		domain.RoleClinician, domain.RoleNurse,
	} {
		if err := router.Register(role, namedSurface(string(role))); err != nil {
			t.Fatalf("register %s: %v", role, err)
		}
	}
	return router
}

func TestResolve_AnonymousGetsLoginSurface(t *testing.T) {
	router := newTestRouter(t)
	if got := router.Resolve(domain.Session{}); got.Name() != "login" {
		t.Fatalf("expected login surface, got %s", got.Name())
	}
}

func TestResolve_EachRoleGetsItsSurface(t *testing.T) {
	router := newTestRouter(t)
	for _, role := range []domain.Role{
		domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleReception,
		domain.RoleClinician, domain.RoleNurse,
	} {
		sess := domain.Session{Token: "tok", Role: role}
		if got := router.Resolve(sess); got.Name() != string(role) {
			t.Fatalf("role %s resolved to %s", role, got.Name())
		}
	}
}

func TestResolve_AdminSurfaceOnlyForAdminRole(t *testing.T) {
	router := newTestRouter(t)
	for _, role := range []domain.Role{domain.RoleNurse, domain.RoleReception, domain.RoleClinician} {
		if got := router.Resolve(domain.Session{Token: "tok", Role: role}); got.Name() == "admin" {
			t.Fatalf("role %s must not reach the admin surface", role)
		}
	}
}

func TestResolve_UnknownRoleGetsFallback(t *testing.T) {
	router := newTestRouter(t)
	sess := domain.Session{Token: "tok", Role: "auditor"}
	if got := router.Resolve(sess); got.Name() != "fallback" {
		t.Fatalf("unknown role should get the fallback surface, got %s", got.Name())
	}
}

func TestRegister_DuplicateRoleFails(t *testing.T) {
	router := newTestRouter(t)
	err := router.Register(domain.RoleNurse, namedSurface("other"))
	if !errors.Is(err, domain.ErrRoleTaken) {
		t.Fatalf("expected ErrRoleTaken, got %v", err)
	}
}
