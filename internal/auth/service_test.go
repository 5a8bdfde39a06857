package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", false)
	tok, err := svc.IssueJWT("u1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Subject != "u1" || c.Email != "a@example.com" || c.Name != "Ada" {
		t.Fatalf("claims: %+v", c)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewService("secret-a", false).IssueJWT("u1", "a@example.com", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewService("secret-b", false).Parse(tok); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestMiddlewareAttachesClaims(t *testing.T) {
	svc := NewService("test-secret", false)
	tok, err := svc.IssueJWT("u1", "a@example.com", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got *Claims
	h := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	// Bearer header.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Subject != "u1" {
		t.Fatalf("bearer claims: %+v", got)
	}

	// Cookie.
	got = nil
	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Subject != "u1" {
		t.Fatalf("cookie claims: %+v", got)
	}
}

func TestMiddlewarePassesAnonymous(t *testing.T) {
	svc := NewService("test-secret", false)
	called := false
	h := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if FromContext(r.Context()) != nil {
			t.Fatal("claims present on anonymous request")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Fatal("anonymous request blocked")
	}
}

func TestFromContextEmpty(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatal("expected nil claims from empty context")
	}
}
