package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"zyrix.backend/internal/interfaces/http/handlers"
)

func TestRegisterAPIV1Routes_RegistersAccountRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIV1Routes(r, routeDeps{
		accountHandler: &handlers.AccountHandler{},
		authMiddleware: func(c *gin.Context) { c.Next() },
	})

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/accounts/register"},
		{"GET", "/api/v1/accounts/verify-email"},
		{"POST", "/api/v1/accounts/login"},
		{"POST", "/api/v1/accounts/request-password-reset"},
		{"POST", "/api/v1/accounts/reset-password"},
		{"POST", "/api/v1/accounts/change-password"},
		{"GET", "/api/v1/accounts/me"},
	}

	routes := r.Routes()
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterHealthRoute_ReportsDBState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoute(r, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status      string `json:"status"`
		Service     string `json:"service"`
		Version     string `json:"version"`
		DBConnected bool   `json:"dbConnected"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body.Status != "ok" || body.Service != "zyrix-backend" || body.Version != "3.0" {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
	// No DB handle wired in this test, so the flag must be false.
	if body.DBConnected {
		t.Fatalf("expected dbConnected=false without a database")
	}
}

func TestApplyCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	applyCORSMiddleware(r)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Preflight short-circuits with 204 and echoes the origin.
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.zyrix.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.zyrix.example" {
		t.Fatalf("expected origin echoed, got %q", got)
	}

	// Plain request passes through with the headers set.
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.zyrix.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials header set")
	}

	// No Origin header, no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected no CORS headers without an origin")
	}
}
