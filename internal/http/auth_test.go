package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestVerifyPINFlow(t *testing.T) {
	app, _ := newTestApp(t)

	// Malformed PIN: 400, no cookie.
	resp := do(t, app, jsonReq(t, "POST", "/auth/verify", map[string]string{"pin": "12"}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed pin: status = %d, want 400", resp.StatusCode)
	}
	if findCookie(resp, "pan_auth") != nil {
		t.Fatal("malformed pin set a session cookie")
	}

	// Wrong PIN: 401.
	resp = do(t, app, jsonReq(t, "POST", "/auth/verify", map[string]string{"pin": "9999"}))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong pin: status = %d, want 401", resp.StatusCode)
	}

	// Correct PIN: 200 + cookie with the fixed token.
	resp = do(t, app, jsonReq(t, "POST", "/auth/verify", map[string]string{"pin": testPIN}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("correct pin: status = %d, want 200", resp.StatusCode)
	}
	ck := findCookie(resp, "pan_auth")
	if ck == nil {
		t.Fatal("no session cookie on success")
	}
	if ck.Value != testToken {
		t.Fatalf("cookie value = %q, want the configured token", ck.Value)
	}
	if !ck.HttpOnly {
		t.Fatal("cookie not HttpOnly")
	}
	if ck.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie SameSite = %v, want Strict", ck.SameSite)
	}

	// GET on the verify endpoint is not allowed.
	resp = do(t, app, httptest.NewRequest("GET", "/auth/verify", nil))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET verify: status = %d, want 405", resp.StatusCode)
	}
}

func TestVerifyRateLimited(t *testing.T) {
	app, _ := newTestApp(t)

	for i := 0; i < 5; i++ {
		req := jsonReq(t, "POST", "/auth/verify", map[string]string{"pin": "0000"})
		req.Header.Set("X-Forwarded-For", "203.0.113.50")
		resp := do(t, app, req)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, resp.StatusCode)
		}
	}

	// The window is full; even the correct PIN is refused.
	req := jsonReq(t, "POST", "/auth/verify", map[string]string{"pin": testPIN})
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	resp := do(t, app, req)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	var body struct {
		RateLimited bool `json:"rateLimited"`
	}
	decode(t, resp, &body)
	if !body.RateLimited {
		t.Fatal("429 body missing rateLimited flag")
	}

	// A different forwarded address has its own bucket.
	req = jsonReq(t, "POST", "/auth/verify", map[string]string{"pin": testPIN})
	req.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")
	resp = do(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("other client: status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthCheck(t *testing.T) {
	app, _ := newTestApp(t)

	var body struct {
		Authenticated bool `json:"authenticated"`
	}

	resp := do(t, app, httptest.NewRequest("GET", "/auth/check", nil))
	decode(t, resp, &body)
	if body.Authenticated {
		t.Fatal("authenticated without a cookie")
	}

	req := httptest.NewRequest("GET", "/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: "pan_auth", Value: testToken[:len(testToken)-1] + "X"})
	resp = do(t, app, req)
	decode(t, resp, &body)
	if body.Authenticated {
		t.Fatal("authenticated with a token differing in the last character")
	}

	resp = do(t, app, withSession(httptest.NewRequest("GET", "/auth/check", nil)))
	decode(t, resp, &body)
	if !body.Authenticated {
		t.Fatal("not authenticated with the valid token")
	}
}

func TestSessionGate(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest("GET", "/products", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no cookie: status = %d, want 401", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/products", nil)
	req.AddCookie(&http.Cookie{Name: "pan_auth", Value: "wrong-token"})
	resp = do(t, app, req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", resp.StatusCode)
	}

	resp = do(t, app, withSession(httptest.NewRequest("GET", "/products", nil)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", resp.StatusCode)
	}
}

func TestMaintenancePrune(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest("POST", "/maintenance/prune", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no bearer: status = %d, want 401", resp.StatusCode)
	}

	req := httptest.NewRequest("POST", "/maintenance/prune", nil)
	req.Header.Set("Authorization", "Bearer "+testCron)
	resp = do(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("with bearer: status = %d, want 200", resp.StatusCode)
	}
}
