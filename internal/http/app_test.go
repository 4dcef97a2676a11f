package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/crypto/bcrypt"

	"projectpan/internal/config"
	"projectpan/internal/http/handlers"
	"projectpan/internal/repos"
)

const (
	testPIN   = "1234"
	testToken = "tok-0123456789abcdef0123456789abcdef"
	testCron  = "cron-secret-for-tests"
)

// newTestApp mirrors the route wiring of cmd/projectpan against a fresh
// in-memory database.
func newTestApp(t *testing.T) (*fiber.App, config.Config) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPIN), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		DBDSN:      ":memory:",
		PinHash:    string(hash),
		AuthToken:  testToken,
		CronSecret: testCron,
		BackupDir:  t.TempDir(),
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	app := fiber.New()
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg)
	session := handlers.RequireSession(deps.Auth)
	cron := handlers.RequireCronSecret(cfg)

	app.All("/auth/verify", deps.AuthHandler.Verify)
	app.All("/auth/check", deps.AuthHandler.Check)
	app.All("/categories", session, deps.CategoryHandler.Handle)
	app.All("/products", session, deps.ProductHandler.Handle)
	app.All("/products/status", session, deps.ProductHandler.Status)
	app.All("/products/usage", session, deps.UsageHandler.Handle)
	app.All("/backup/export", session, deps.BackupHandler.Export)
	app.All("/backup/restore", session, deps.BackupHandler.Restore)
	app.All("/backup/run", cron, deps.BackupHandler.Run)
	app.All("/maintenance/prune", cron, deps.AuthHandler.Prune)

	return app, cfg
}

func jsonReq(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "pan_auth", Value: testToken})
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
