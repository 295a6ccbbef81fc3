package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/internal/core/service"
	"github.com/yndnr/reviewgate/internal/storage/memory"
	"github.com/yndnr/reviewgate/internal/telemetry/logger"
)

// mockAccounts implements service.AccountService for testing.
type mockAccounts struct{}

func (mockAccounts) VerifyCredentials(_ context.Context, username, password string) (domain.UserID, domain.Role, error) {
	switch {
	case username == "alice" && password == "pw":
		return "1", domain.RoleUser, nil
	case username == "down":
		return "", "", errors.New("dial tcp: connection refused")
	}
	return "", "", service.ErrCredentialsRejected
}

// mockProfiles implements service.ProfileService for testing.
type mockProfiles struct {
	fail bool
}

func (m *mockProfiles) FetchProfile(_ context.Context, userID domain.UserID) (domain.UserInfo, error) {
	if m.fail {
		return domain.UserInfo{}, errors.New("profile backend: secret-host:5432 unreachable")
	}
	return domain.UserInfo{UserID: userID, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser}, nil
}

// mockSubmissions implements service.SubmissionRepository for testing.
type mockSubmissions struct {
	ids []domain.SubID
}

func (m *mockSubmissions) QuerySubmissionIDs(_ context.Context, _ domain.UserID) ([]domain.SubID, error) {
	return m.ids, nil
}

type fixture struct {
	handler  *Handler
	profiles *mockProfiles
	subs     *mockSubmissions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	profiles := &mockProfiles{}
	subs := &mockSubmissions{}
	ctrl := service.NewSessionController(
		memory.New(),
		memory.NewInfoCache(),
		mockAccounts{},
		profiles,
		subs,
	)
	return &fixture{handler: New(ctrl, nil, "test"), profiles: profiles, subs: subs}
}

func (f *fixture) do(t *testing.T, method, path, tok string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func (f *fixture) login(t *testing.T) LoginResponse {
	t.Helper()
	rec, resp := f.do(t, http.MethodPost, "/v1/login", "", LoginRequest{Username: "alice", Password: "pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	raw, _ := json.Marshal(resp.Data)
	var out LoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	return out
}

func TestHandleLogin(t *testing.T) {
	f := newFixture(t)
	out := f.login(t)

	if out.UserID != "1" || out.Role != "user" {
		t.Errorf("login = %+v, want user 1 with role user", out)
	}
	if !domain.ValidAccessTokenFormat(out.AccessToken) {
		t.Errorf("access_token %q has wrong format", out.AccessToken)
	}
	if d := time.Until(out.ExpiresAt); d < 29*24*time.Hour || d > 30*24*time.Hour {
		t.Errorf("expires_at %v not ~30 days out", out.ExpiresAt)
	}
}

func TestHandleLogin_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"wrong password", LoginRequest{Username: "alice", Password: "nope"}, http.StatusUnauthorized, "RG-AUTH-4010"},
		{"empty username", LoginRequest{Password: "pw"}, http.StatusUnauthorized, "RG-AUTH-4010"},
		{"account service down", LoginRequest{Username: "down", Password: "pw"}, http.StatusBadGateway, "RG-SYS-5020"},
		{"unknown field", map[string]string{"user": "alice"}, http.StatusBadRequest, "RG-ARG-4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := f.do(t, http.MethodPost, "/v1/login", "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Code != tt.wantCode || rec.Header().Get("X-Error-Code") != tt.wantCode {
				t.Errorf("code = %q (header %q), want %q", resp.Code, rec.Header().Get("X-Error-Code"), tt.wantCode)
			}
		})
	}
}

func TestHandleLogin_DoesNotLeakCause(t *testing.T) {
	f := newFixture(t)
	rec, _ := f.do(t, http.MethodPost, "/v1/login", "", LoginRequest{Username: "down", Password: "pw"})
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("response leaked collaborator error: %s", rec.Body.String())
	}
}

func TestHandleVerifySession(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t).AccessToken

	rec, resp := f.do(t, http.MethodPost, "/v1/sessions/verify", tok, VerifySessionRequest{Permissions: []string{"profile:read"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if data, _ := resp.Data.(map[string]any); data["user_id"] != "1" {
		t.Errorf("data = %v, want user_id 1", resp.Data)
	}

	rec, _ = f.do(t, http.MethodPost, "/v1/sessions/verify", tok, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("empty body status = %d, want 200", rec.Code)
	}

	rec, resp = f.do(t, http.MethodPost, "/v1/sessions/verify", tok, VerifySessionRequest{Permissions: []string{"session:admin"}})
	if rec.Code != http.StatusForbidden || resp.Code != "RG-AUTH-4030" {
		t.Errorf("missing permission = (%d, %s), want (403, RG-AUTH-4030)", rec.Code, resp.Code)
	}

	rec, resp = f.do(t, http.MethodPost, "/v1/sessions/verify", "", nil)
	if rec.Code != http.StatusUnauthorized || resp.Code != "RG-TOKN-4010" {
		t.Errorf("no token = (%d, %s), want (401, RG-TOKN-4010)", rec.Code, resp.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("401 should carry WWW-Authenticate")
	}
}

func TestHandleLogout(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t).AccessToken

	rec, resp := f.do(t, http.MethodPost, "/v1/logout", tok, LogoutRequest{UserID: "2"})
	if rec.Code != http.StatusForbidden || resp.Code != "RG-TOKN-4030" {
		t.Fatalf("foreign logout = (%d, %s), want (403, RG-TOKN-4030)", rec.Code, resp.Code)
	}

	rec, _ = f.do(t, http.MethodPost, "/v1/logout", tok, LogoutRequest{UserID: "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, resp = f.do(t, http.MethodPost, "/v1/sessions/verify", tok, nil)
	if rec.Code != http.StatusUnauthorized || resp.Code != "RG-TOKN-4010" {
		t.Errorf("verify after logout = (%d, %s), want (401, RG-TOKN-4010)", rec.Code, resp.Code)
	}
}

func TestHandleUserInfo(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t).AccessToken

	rec, resp := f.do(t, http.MethodGet, "/v1/users/1/info", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if data, _ := resp.Data.(map[string]any); data["email"] != "alice@example.com" {
		t.Errorf("data = %v", resp.Data)
	}

	rec, resp = f.do(t, http.MethodGet, "/v1/users/1/info", "rgtk_bogus", nil)
	if rec.Code != http.StatusUnauthorized || resp.Code != "RG-TOKN-4012" {
		t.Errorf("bad token = (%d, %s), want (401, RG-TOKN-4012)", rec.Code, resp.Code)
	}
}

func TestHandleUserInfo_ProfileFailure(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t).AccessToken
	f.profiles.fail = true

	rec, resp := f.do(t, http.MethodGet, "/v1/users/7/info", tok, nil)
	if rec.Code != http.StatusBadGateway || resp.Code != "RG-SYS-5021" {
		t.Errorf("profile failure = (%d, %s), want (502, RG-SYS-5021)", rec.Code, resp.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-host") {
		t.Errorf("response leaked collaborator error: %s", rec.Body.String())
	}
}

func TestHandleSubmissions(t *testing.T) {
	f := newFixture(t)
	tok := f.login(t).AccessToken
	a, b := uuid.New(), uuid.New()
	f.subs.ids = []domain.SubID{a, b, a}

	rec, resp := f.do(t, http.MethodGet, "/v1/submissions", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data, _ := resp.Data.(map[string]any)
	subs, _ := data["submissions"].([]any)
	if len(subs) != 2 || subs[0] != a.String() || subs[1] != b.String() {
		t.Errorf("submissions = %v, want [%s %s]", subs, a, b)
	}
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	rec, resp := f.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := resp.Data.(map[string]any)
	if data["active_sessions"] != float64(1) || data["version"] != "test" {
		t.Errorf("health data = %v", data)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"RG-AUTH-4010", http.StatusUnauthorized},
		{"RG-TOKN-4011", http.StatusUnauthorized},
		{"RG-TOKN-4012", http.StatusUnauthorized},
		{"RG-TOKN-4030", http.StatusForbidden},
		{"RG-AUTH-4030", http.StatusForbidden},
		{"RG-SESS-4090", http.StatusConflict},
		{"RG-ARG-4000", http.StatusBadRequest},
		{"RG-SYS-4290", http.StatusTooManyRequests},
		{"RG-SYS-5020", http.StatusBadGateway},
		{"RG-SYS-5021", http.StatusBadGateway},
		{"RG-SYS-5010", http.StatusInternalServerError},
		{"RG-SYS-5000", http.StatusInternalServerError},
		{"garbage", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorCodeToHTTPStatus(tt.code); got != tt.want {
			t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   domain.AccessToken
	}{
		{"Bearer rgtk_abc", "rgtk_abc"},
		{"bearer  rgtk_abc ", "rgtk_abc"},
		{"Basic dXNlcg==", ""},
		{"", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := bearerToken(req); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestWriteError_LogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	h := New(nil, l, "test")

	w := brokenWriter{httptest.NewRecorder()}
	h.writeError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnauthorized,
		domain.ErrTokenInvalid.Code, domain.ErrTokenInvalid.Message, "")

	if w.Code != http.StatusUnauthorized || w.Header().Get("X-Error-Code") != domain.ErrTokenInvalid.Code {
		t.Errorf("response = (%d, %q)", w.Code, w.Header().Get("X-Error-Code"))
	}
	out := buf.String()
	if !strings.Contains(out, "failed to encode error response") || !strings.Contains(out, "connection reset by peer") {
		t.Errorf("encode failure not logged: %s", out)
	}
}
