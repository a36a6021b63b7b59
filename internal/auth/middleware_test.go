package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcloud/dynamicmenu/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthenticator(t *testing.T, ttl time.Duration) (*Authenticator, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec(testSecret, ttl, nil)
	require.NoError(t, err)
	service := NewService(newStubDirectory(t), nil)
	return NewAuthenticator(nil, codec, service, "Authorization", "Bearer ", nil), codec
}

// probe records the principal seen by the downstream handler.
func probe(got **AuthenticatedUser) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	authenticator, codec := newTestAuthenticator(t, time.Hour)

	signed, err := codec.Issue("alice", nil)
	require.NoError(t, err)

	var got *AuthenticatedUser
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()

	authenticator.Middleware(probe(&got)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.User.Username)
	assert.Equal(t, []string{"ROLE_ADMIN", "sys:user:list"}, got.Authorities())
}

func TestMiddlewarePassesThroughWithoutToken(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t, time.Hour)

	var got *AuthenticatedUser
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	authenticator.Middleware(probe(&got)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, got)
}

func TestMiddlewareDegradesOnBadToken(t *testing.T) {
	authenticator, codec := newTestAuthenticator(t, time.Hour)

	signed, err := codec.Issue("alice", nil)
	require.NoError(t, err)

	unknown, err := codec.Issue("nobody", nil)
	require.NoError(t, err)
	disabled, err := codec.Issue("bob", nil)
	require.NoError(t, err)
	blankSubject, err := codec.Issue("  ", nil)
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":       "Bearer not.a.token",
		"tampered":      "Bearer " + signed[:len(signed)-2] + "xx",
		"raw no prefix": "not.a.token",
		"unknown sub":   "Bearer " + unknown,
		"disabled user": "Bearer " + disabled,
		"blank subject": "Bearer " + blankSubject,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var got *AuthenticatedUser
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			rr := httptest.NewRecorder()

			authenticator.Middleware(probe(&got)).ServeHTTP(rr, req)

			// The request still reaches the handler, just unauthenticated.
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Nil(t, got)
		})
	}
}

func TestMiddlewareDegradesOnExpiredToken(t *testing.T) {
	authenticator, codec := newTestAuthenticator(t, -time.Minute)

	signed, err := codec.Issue("alice", nil)
	require.NoError(t, err)

	var got *AuthenticatedUser
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()

	handler := authenticator.Middleware(RequireAuthenticated(probe(&got)))
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, got)

	var body struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnauthorized, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestMiddlewareSkipsWhenPrincipalPresent(t *testing.T) {
	authenticator, codec := newTestAuthenticator(t, time.Hour)

	signed, err := codec.Issue("alice", nil)
	require.NoError(t, err)

	existing := NewAuthenticatedUser(User{ID: 99, Username: "preset"}, nil, nil)

	var got *AuthenticatedUser
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req = req.WithContext(ContextWithPrincipal(req.Context(), existing))
	rr := httptest.NewRecorder()

	authenticator.Middleware(probe(&got)).ServeHTTP(rr, req)

	require.NotNil(t, got)
	assert.Equal(t, int64(99), got.User.ID)
}

func TestRequireAuthenticated(t *testing.T) {
	var got *AuthenticatedUser
	handler := RequireAuthenticated(probe(&got))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	principal := NewAuthenticatedUser(User{ID: 1}, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAuthority(t *testing.T) {
	var got *AuthenticatedUser
	handler := RequireAuthority("sys:user:list")(probe(&got))

	// Anonymous gets 401.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Authenticated without the authority gets 403.
	principal := NewAuthenticatedUser(User{ID: 1}, []string{"ROLE_VIEWER"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Holding the authority passes.
	principal = NewAuthenticatedUser(User{ID: 1}, nil, []string{"sys:user:list"})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole(t *testing.T) {
	var got *AuthenticatedUser
	handler := RequireRole("ADMIN")(probe(&got))

	principal := NewAuthenticatedUser(User{ID: 1}, []string{"ROLE_ADMIN"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	principal = NewAuthenticatedUser(User{ID: 1}, nil, []string{"ADMIN"})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
