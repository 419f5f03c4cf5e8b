package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	_ = os.Setenv("UPLOAD_BASE", t.TempDir())
	initDB()
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Me
	resp = performRequest(r, http.MethodGet, "/me", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("me failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. Verify without an image is rejected before the OCR stage
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("brand_name", "Orpheus Brewing")
	_ = mw.WriteField("product_class", "Golden Ale")
	_ = mw.WriteField("alcohol_content", "4.2%")
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/verify", buf, token, mw.FormDataContentType())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing image got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Verify without required claims is rejected too
	buf = &bytes.Buffer{}
	mw = multipart.NewWriter(buf)
	w, _ := mw.CreateFormFile("image", "label.png")
	_, _ = w.Write([]byte("not really a png"))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/verify", buf, token, mw.FormDataContentType())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing claims got %d body=%s", resp.Code, resp.Body.String())
	}

	// 6. List verifications
	resp = performRequest(r, http.MethodGet, "/verifications", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list verifications failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Unknown verification id is a 404
	resp = performRequest(r, http.MethodGet, "/verifications/00000000-0000-0000-0000-000000000000", nil, token, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown verification got %d", resp.Code)
	}

	// 8. Unauthorized access to protected endpoints should be 401
	unauth := performRequest(r, http.MethodGet, "/verifications", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
