package integration

import (
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	body := `{"username":"siteadmin","email":"siteadmin@test.com","password":"password123","role":"Admin"}`
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	token := result["token"].(string)
	if token == "" {
		t.Fatal("expected non-empty token from registration")
	}
	user := result["user"].(map[string]interface{})
	if user["role"] != "Admin" {
		t.Errorf("expected role Admin, got %v", user["role"])
	}
	if _, exists := user["password_hash"]; exists {
		t.Error("password hash must not be serialized")
	}

	rec = app.request("POST", "/api/auth/login", `{"username":"siteadmin","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	loginToken := parseJSON(t, rec)["token"].(string)
	if loginToken == "" {
		t.Fatal("expected non-empty token from login")
	}

	rec = app.request("GET", "/api/auth/me", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	profile := parseJSON(t, rec)["user"].(map[string]interface{})
	if profile["username"] != "siteadmin" {
		t.Errorf("expected username siteadmin, got %v", profile["username"])
	}
}

func TestAuthFlow_DuplicateUser(t *testing.T) {
	app := setupApp(t)

	body := `{"username":"dup","email":"dup@test.com","password":"password123"}`
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/auth/register", body, "")
	assertErrorCode(t, rec, http.StatusConflict, "DUPLICATE_USER")
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "User")

	rec := app.request("POST", "/api/auth/login", `{"username":"nosuchuser","password":"wrongpassword"}`, "")
	assertErrorCode(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestAuthFlow_ProtectedRouteRequiresToken(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/auth/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/projects", "", "not-a-valid-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d: %s", rec.Code, rec.Body.String())
	}
}
