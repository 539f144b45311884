package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roomvana/designhub/internal/config"
	"github.com/roomvana/designhub/internal/db"
	apphttp "github.com/roomvana/designhub/internal/http"
)

func testConfig() config.Config {
	return config.Config{
		Env:                  "test",
		Port:                 0,
		JWTSecret:            "test-secret-key",
		JWTAccessTTLMinutes:  60,
		GeminiModel:          "gemini-2.5-flash-image",
		GeminiEndpoint:       "http://127.0.0.1:1",
		GeminiTimeoutSeconds: 5,
		AllowedOrigins:       []string{"http://localhost:5173"},
		MaxBodyBytes:         50 << 20,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping integration tests")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, pool, testConfig())

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE projects, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// helpers

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

type projectItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Style string `json:"style"`
}

func signup(t *testing.T, router http.Handler, email, password, name string) authResponse {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `","name":"` + name + `"}`
	w := doRequest(router, http.MethodPost, "/api/auth/signup", body, "")

	if w.Code != http.StatusOK {
		t.Fatalf("signup got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp authResponse
	mustReadJSON(t, w, &resp)

	return resp
}

func createProject(t *testing.T, router http.Handler, token, name, style string) string {
	t.Helper()

	body := `{"name":"` + name + `","original_image":"data:image/png;base64,aa","generated_image":"data:image/png;base64,bb","prompt":"make it cozy","style":"` + style + `"}`
	w := doRequest(router, http.MethodPost, "/api/projects", body, token)

	if w.Code != http.StatusOK {
		t.Fatalf("create project got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	mustReadJSON(t, w, &resp)

	return resp.ID
}

func TestIntegration_SignupLoginRoundTrip(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)
	defer resetDB(t, pool)

	signedUp := signup(t, router, "a@x.com", "password123", "A")

	if signedUp.Token == "" || signedUp.User.Name != "A" {
		t.Fatalf("unexpected signup response: %+v", signedUp)
	}

	// duplicate email fails with 400
	w := doRequest(router, http.MethodPost, "/api/auth/signup",
		`{"email":"a@x.com","password":"password456","name":"A2"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	// login with the same credentials succeeds and returns the user
	w = doRequest(router, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"password123"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	var loggedIn authResponse
	mustReadJSON(t, w, &loggedIn)

	if loggedIn.User.Name != "A" || loggedIn.User.ID != signedUp.User.ID {
		t.Fatalf("login user mismatch: %+v vs %+v", loggedIn.User, signedUp.User)
	}

	// wrong password is rejected
	w = doRequest(router, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"wrong-password"}`, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login got status %d, want 401", w.Code)
	}
}

func TestIntegration_ProjectLifecycleAndIsolation(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)
	defer resetDB(t, pool)

	userA := signup(t, router, "a@x.com", "password123", "A")
	userB := signup(t, router, "b@x.com", "password123", "B")

	// A creates two projects, B creates one
	createProject(t, router, userA.Token, "Studio", "modern")
	loftID := createProject(t, router, userA.Token, "Loft", "industrial")
	createProject(t, router, userB.Token, "Cabin", "scandinavian")

	// A sees exactly two, newest first, never B's
	w := doRequest(router, http.MethodGet, "/api/projects", "", userA.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("list got status %d, body=%s", w.Code, w.Body.String())
	}

	var listA []projectItem
	mustReadJSON(t, w, &listA)

	if len(listA) != 2 {
		t.Fatalf("user A expected 2 projects, got %d", len(listA))
	}

	if listA[0].Name != "Loft" || listA[0].Style != "industrial" {
		t.Fatalf("expected newest project first, got %+v", listA[0])
	}

	for _, p := range listA {
		if p.Name == "Cabin" {
			t.Fatalf("user A can see user B's project")
		}
	}

	// B deleting A's project is a silent no-op
	w = doRequest(router, http.MethodDelete, "/api/projects/"+loftID, "", userB.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("foreign delete got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/projects", "", userA.Token)
	listA = nil
	mustReadJSON(t, w, &listA)

	if len(listA) != 2 {
		t.Fatalf("foreign delete removed a project: %d left", len(listA))
	}

	// A deletes their own project for real
	w = doRequest(router, http.MethodDelete, "/api/projects/"+loftID, "", userA.Token)

	if w.Code != http.StatusOK {
		t.Fatalf("own delete got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/projects", "", userA.Token)
	listA = nil
	mustReadJSON(t, w, &listA)

	if len(listA) != 1 || listA[0].Name != "Studio" {
		t.Fatalf("expected only Studio to remain, got %+v", listA)
	}
}

func TestIntegration_ProjectsRequireToken(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)
	defer resetDB(t, pool)

	w := doRequest(router, http.MethodGet, "/api/projects", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/projects", "", "garbage-token")

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", w.Code)
	}
}
