package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alumni-directory-backend/internal/domain"
)

const (
	sessionToken = "session-tok"
	adminToken   = "admin-tok"
)

type fixture struct {
	sessions   *MockSessionService
	profiles   *MockProfileService
	moderation *MockModerationEngine
	admins     *MockAdminService
	pictures   *MockPictureService
	router     http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		sessions:   new(MockSessionService),
		profiles:   new(MockProfileService),
		moderation: new(MockModerationEngine),
		admins:     new(MockAdminService),
		pictures:   new(MockPictureService),
	}
	h := NewHandler(Services{
		Sessions:   f.sessions,
		Profiles:   f.profiles,
		Moderation: f.moderation,
		Admins:     f.admins,
		Pictures:   f.pictures,
	}, CookieConfig{SessionTTL: time.Hour, AdminTTL: time.Hour})
	f.router = NewRouter(h)
	return f
}

// signedIn makes sessionToken resolve to identity with the given status.
func (f *fixture) signedIn(identity *domain.Identity, status domain.ProfileStatus) {
	f.sessions.On("Authenticate", mock.Anything, sessionToken).Return(identity, nil)
	f.sessions.On("Enrich", mock.Anything, identity).
		Return(&domain.IdentitySession{User: identity, ProfileStatus: status}, nil)
}

func (f *fixture) adminSignedIn(admin *domain.Admin) {
	f.admins.On("Verify", mock.Anything, adminToken).Return(admin, nil)
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func newRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionToken})
	return req
}

func withAdminSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: adminToken})
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	decodeBody(t, rec, &body)
	return body.Error
}

func testIdentity() *domain.Identity {
	name := "Ada Lovelace"
	return &domain.Identity{ID: "11111111-1111-1111-1111-111111111111", Email: "ada@example.com", Name: &name}
}

func testAdmin() *domain.Admin {
	return &domain.Admin{ID: "22222222-2222-2222-2222-222222222222", Username: "root"}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
