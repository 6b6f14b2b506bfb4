package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bms_proxy/internal/service"
)

func postJSON(t *testing.T, h http.Handler, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	h.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(t, r, "/auth/sign-up", `{"username":"op","password":"p"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 || auth.lastSignUpUsername != "op" {
		t.Fatalf("unexpected sign-up: %v / %q", m, auth.lastSignUpUsername)
	}

	w = postJSON(t, r, "/auth/sign-in", `{"username":"op","password":"p"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	w = postJSON(t, r, "/auth/sign-in", `{"username":1}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_Failures(t *testing.T) {
	auth := &mockAuth{signUpErr: errors.New("username taken"), genTokenErr: service.ErrInvalidPassword}
	r := newTestRouter(&service.Service{Authorization: auth})

	if w := postJSON(t, r, "/auth/sign-up", `{"username":"op","password":"p"}`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("sign-up failure: got %d", w.Code)
	}
	w := postJSON(t, r, "/auth/sign-in", `{"username":"op","password":"bad"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("sign-in failure: got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("invalid credentials")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
