package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/roomvana/designhub/internal/auth"
	"github.com/roomvana/designhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	return f.claims, f.err
}

func newGatedRouter(v middlewares.TokenVerifier) *gin.Engine {
	m := middlewares.NewAuthMiddleware(v)

	r := gin.New()
	r.GET("/private", m.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		name, _ := middlewares.NameFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "name": name})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		verifier       *fakeVerifier
		wantStatusCode int
	}{
		{
			name:           "missing_header",
			authHeader:     "",
			verifier:       &fakeVerifier{},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_scheme",
			authHeader:     "Basic abc123",
			verifier:       &fakeVerifier{},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "blank_token",
			authHeader:     "Bearer ",
			verifier:       &fakeVerifier{},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid_token",
			authHeader:     "Bearer bad-token",
			verifier:       &fakeVerifier{err: errors.New("invalid token")},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:       "valid_token",
			authHeader: "Bearer good-token",
			verifier: &fakeVerifier{claims: &auth.Claims{
				UserID: "user-1",
				Email:  "a@x.com",
				Name:   "A",
			}},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := newGatedRouter(tt.verifier)

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
