package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IannisIP/RideApplicationBackend/data"
	"github.com/IannisIP/RideApplicationBackend/internal/logger"
	"github.com/IannisIP/RideApplicationBackend/internal/token"
)

func init() {
	logger.InitDefault("ride-app-backend-test")
}

func newTestApp() *Config {
	return &Config{
		Models: data.Models{
			Users:   newFakeAccountStore(),
			Drivers: newFakeAccountStore(),
			Rides:   newFakeRideStore(),
		},
		JWTSecret:      "test-secret",
		TokenExpiry:    time.Hour,
		AllowedOrigins: []string{"http://localhost:8080"},
	}
}

func doReq(t *testing.T, method, url, accessToken string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("x-access-token", accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

type authBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Auth    bool   `json:"auth"`
	Token   string `json:"token"`
	User    *struct {
		ID        int    `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"user"`
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"email":     email,
		"password":  "p1secret",
		"firstName": "Ion",
		"lastName":  "Popescu",
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body authBody
	decodeBody(t, resp, &body)
	if !body.Auth || body.Token == "" {
		t.Fatalf("expected auth true with token, got %+v", body)
	}
	if body.User == nil || body.User.Email != "a@x.com" {
		t.Fatalf("expected user echoed back, got %+v", body.User)
	}

	claims, err := token.Validate(body.Token, app.JWTSecret)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.Email != "a@x.com" || claims.Kind != token.KindUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterNeverEchoesPassword(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), "p1secret") {
		t.Fatalf("password leaked in response: %s", raw)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 on duplicate, got %d", resp.StatusCode)
	}

	var body authBody
	decodeBody(t, resp, &body)
	if !body.Error || body.Auth {
		t.Fatalf("expected error body, got %+v", body)
	}
}

func TestSameEmailAcrossUserAndDriver(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for user, got %d", resp.StatusCode)
	}

	// Drivers are a separate uniqueness domain.
	resp = doReq(t, http.MethodPost, srv.URL+"/driver", "", registerBody("a@x.com"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for driver, got %d", resp.StatusCode)
	}

	var body authBody
	decodeBody(t, resp, &body)
	claims, err := token.Validate(body.Token, app.JWTSecret)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.Kind != token.KindDriver {
		t.Fatalf("expected driver token, got kind %q", claims.Kind)
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))

	// Correct credentials.
	resp := doReq(t, http.MethodPost, srv.URL+"/user/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "p1secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body authBody
	decodeBody(t, resp, &body)
	if !body.Auth || body.Token == "" {
		t.Fatalf("expected auth true with token, got %+v", body)
	}
	claims, err := token.Validate(body.Token, app.JWTSecret)
	if err != nil || claims.Email != "a@x.com" {
		t.Fatalf("expected token for a@x.com, got claims %+v err %v", claims, err)
	}

	// Wrong password.
	resp = doReq(t, http.MethodPost, srv.URL+"/user/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrongpass",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body = authBody{}
	decodeBody(t, resp, &body)
	if body.Auth || body.Token != "" {
		t.Fatalf("expected auth false without token, got %+v", body)
	}

	// Unknown account.
	resp = doReq(t, http.MethodPost, srv.URL+"/user/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "p1secret",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUserInfo(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	var registered authBody
	decodeBody(t, resp, &registered)

	// Valid token resolves the account.
	resp = doReq(t, http.MethodGet, srv.URL+"/user-info", registered.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var account struct {
		Email string `json:"email"`
	}
	decodeBody(t, resp, &account)
	if account.Email != "a@x.com" {
		t.Fatalf("expected a@x.com, got %q", account.Email)
	}

	// Missing token.
	resp = doReq(t, http.MethodGet, srv.URL+"/user-info", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// Garbage token.
	resp = doReq(t, http.MethodGet, srv.URL+"/user-info", "not-a-token", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	// Token for an account that no longer exists.
	orphan, err := token.Generate("ghost@x.com", token.KindUser, app.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	resp = doReq(t, http.MethodGet, srv.URL+"/user-info", orphan, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDriverTokenResolvesDriverAccount(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	doReq(t, http.MethodPost, srv.URL+"/user", "", registerBody("a@x.com"))
	resp := doReq(t, http.MethodPost, srv.URL+"/driver", "", registerBody("a@x.com"))
	var registered authBody
	decodeBody(t, resp, &registered)

	resp = doReq(t, http.MethodGet, srv.URL+"/user-info", registered.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var account struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &account)
	if account.Email != "a@x.com" || account.ID != registered.User.ID {
		t.Fatalf("expected the driver account back, got %+v", account)
	}
}

func TestBanner(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodGet, srv.URL+"/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Ride App Backend") {
		t.Fatalf("unexpected banner: %s", raw)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/user", "", map[string]string{
		"email":    "not-an-email",
		"password": "p1",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}
