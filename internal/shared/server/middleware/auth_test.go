package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/auth"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/api/v1/projects", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reviewer": ReviewerIDFromContext(c)})
	})
	router.OPTIONS("/api/v1/projects", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{Sub: "reviewer-1", Role: role})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestAuthMissingToken(t *testing.T) {
	router := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthMalformedToken(t *testing.T) {
	router := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthNonAdminForbidden(t *testing.T) {
	router := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "viewer"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestAuthAdminPassesWithIdentity(t *testing.T) {
	router := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, auth.RoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if body := resp.Body.String(); body != `{"reviewer":"reviewer-1"}` {
		t.Fatalf("body = %s", body)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	router := authRouter(t)

	token, err := auth.SignJWT(auth.Claims{
		Sub:  "reviewer-1",
		Role: auth.RoleAdmin,
		Iat:  time.Now().Add(-2 * time.Hour).Unix(),
		Exp:  time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthOptionsBypass(t *testing.T) {
	router := authRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
