package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prephub/internal/app/service"
	"prephub/internal/common/security"
	"prephub/internal/domain/repository"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	security.InitJWT([]byte("test-access-secret"), []byte("test-refresh-secret"), time.Minute, time.Hour)

	authService := service.NewAuthService(repository.NewMemoryUserRepository())
	problemService := service.NewProblemService(repository.NewMemoryProblemRepository())
	progressService := service.NewProgressService(repository.NewMemoryProgressRepository())
	productService := service.NewProductService(repository.NewMemoryProductRepository(), nil)

	srv := httptest.NewServer(NewRouter(authService, problemService, progressService, productService, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func signupUser(t *testing.T, srv *httptest.Server, email, name string) map[string]interface{} {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "name": name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: status %d, body %v", email, resp.StatusCode, body)
	}
	return body
}

func TestHealthAndWelcome(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "OK" {
		t.Fatalf("health: status %d, body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/", "", nil)
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("welcome: status %d, body %v", resp.StatusCode, body)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if body["success"] != false || !strings.Contains(body["message"].(string), "/api/nope") {
		t.Fatalf("unexpected 404 envelope: %v", body)
	}
}

func TestSignupLoginRefreshFlow(t *testing.T) {
	srv := newTestServer(t)

	signup := signupUser(t, srv, "alice@example.com", "Alice")
	user := signup["user"].(map[string]interface{})
	if user["role"] != "admin" {
		t.Errorf("first user role = %v, want admin", user["role"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password must not appear in the response")
	}

	resp, login := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d, body %v", resp.StatusCode, login)
	}
	if login["refreshToken"] == signup["refreshToken"] {
		t.Error("login should rotate the refresh token")
	}

	resp, refreshed := doJSON(t, http.MethodPost, srv.URL+"/api/auth/refresh", "", map[string]string{
		"refreshToken": login["refreshToken"].(string),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: status %d, body %v", resp.StatusCode, refreshed)
	}

	// The login-issued refresh token was rotated away by the refresh call.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/refresh", "", map[string]string{
		"refreshToken": login["refreshToken"].(string),
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("stale refresh token: status %d, want 401", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	signupUser(t, srv, "alice@example.com", "Alice")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-1",
	})
	if resp.StatusCode != http.StatusUnauthorized || body["success"] != false {
		t.Fatalf("status = %d, body %v; want 401 error envelope", resp.StatusCode, body)
	}
}

func TestSignupValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email": "not-an-email", "password": "secret1", "name": "X",
	})
	if resp.StatusCode != http.StatusBadRequest || body["message"] != "Invalid email format" {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email": "short@example.com", "password": "abc", "name": "X",
	})
	if resp.StatusCode != http.StatusBadRequest || body["message"] != "Password must be at least 6 characters" {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("GET /api/auth/me without token: status %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/progress", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("GET /api/progress without token: status %d, want 401", resp.StatusCode)
	}
}

func TestAdminGateOnProblemWrites(t *testing.T) {
	srv := newTestServer(t)

	admin := signupUser(t, srv, "admin@example.com", "Admin")
	user := signupUser(t, srv, "user@example.com", "User")
	adminToken := admin["accessToken"].(string)
	userToken := user["accessToken"].(string)

	problem := map[string]interface{}{
		"name": "Two Sum", "difficulty": "Easy", "level": "basic",
		"link": "https://leetcode.com/problems/two-sum",
	}

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/dsa", userToken, problem)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin create: status %d, want 403", resp.StatusCode)
	}

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/dsa", adminToken, problem)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin create: status %d, body %v", resp.StatusCode, created)
	}

	// Reads stay public.
	resp, list := doJSON(t, http.MethodGet, srv.URL+"/api/dsa", "", nil)
	if resp.StatusCode != http.StatusOK || list["count"] != float64(1) {
		t.Fatalf("list problems: status %d, body %v", resp.StatusCode, list)
	}
}

func TestProgressSolveFlow(t *testing.T) {
	srv := newTestServer(t)

	signup := signupUser(t, srv, "alice@example.com", "Alice")
	token := signup["accessToken"].(string)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/progress/solve", token, map[string]string{
		"problemId": "problem_two_sum", "level": "basic",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("solve: status %d, body %v", resp.StatusCode, body)
	}
	progress := body["data"].(map[string]interface{})
	if progress["totalSolved"] != float64(1) {
		t.Fatalf("totalSolved = %v, want 1", progress["totalSolved"])
	}

	resp, stats := doJSON(t, http.MethodGet, srv.URL+"/api/progress/stats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d, body %v", resp.StatusCode, stats)
	}

	resp, leaderboard := doJSON(t, http.MethodGet, srv.URL+"/api/progress/leaderboard", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard: status %d, body %v", resp.StatusCode, leaderboard)
	}
	entries := leaderboard["data"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("leaderboard entries = %d, want 1", len(entries))
	}
}

func TestProductCRUDOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	admin := signupUser(t, srv, "admin@example.com", "Admin")
	token := admin["accessToken"].(string)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/tech-products", token, map[string]interface{}{
		"name": "ThinkPad X1", "brand": "Lenovo", "category": "laptops", "price": 1499.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: status %d, body %v", resp.StatusCode, created)
	}
	productID := created["data"].(map[string]interface{})["productId"].(string)

	resp, fetched := doJSON(t, http.MethodGet, srv.URL+"/api/tech-products/"+productID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product: status %d, body %v", resp.StatusCode, fetched)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/tech-products/search?q=ThinkPad", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d", resp.StatusCode)
	}

	resp, deleted := doJSON(t, http.MethodDelete, srv.URL+"/api/tech-products/"+productID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete product: status %d, body %v", resp.StatusCode, deleted)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/tech-products/"+productID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", resp.StatusCode)
	}
}
