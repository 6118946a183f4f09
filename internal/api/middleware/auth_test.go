package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret)(next)(c)
	return c, err
}

func TestAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id":  "u1",
		"username": "alice",
		"role":     "student",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("Auth: %v", err)
	}

	if got, _ := c.Get("user_id").(string); got != "u1" {
		t.Errorf("user_id = %q, want u1", got)
	}
	if got, _ := c.Get("role").(string); got != "student" {
		t.Errorf("role = %q, want student", got)
	}
	if got, _ := c.Get("username").(string); got != "alice" {
		t.Errorf("username = %q, want alice", got)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthMalformedHeader(t *testing.T) {
	_, err := runAuth(t, "Token abc")
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthWrongSignature(t *testing.T) {
	token := signToken(t, "another-secret", jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	_, err := runAuth(t, "Bearer "+token)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	_, err := runAuth(t, "Bearer "+token)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err = %v, want *echo.HTTPError", err)
	}
	if he.Code != want {
		t.Errorf("status = %d, want %d", he.Code, want)
	}
}
