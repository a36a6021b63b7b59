package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/wcloud/dynamicmenu/internal/platform/httpx"
	"github.com/wcloud/dynamicmenu/internal/token"
)

// Authentication outcomes recorded per request.
const (
	OutcomeAnonymous       = "anonymous"
	OutcomeSkipped         = "skipped"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeAuthenticated   = "authenticated"
)

// OutcomeRecorder counts authentication outcomes for observability.
type OutcomeRecorder interface {
	AuthOutcome(outcome string)
}

// Authenticator is the per-request authentication pipeline: it extracts a
// bearer token, validates it, re-resolves the principal from the directory
// and attaches it to the request context. It never fails a request itself;
// every failure degrades to "not authenticated" and the downstream guard
// decides the response.
type Authenticator struct {
	logger  *slog.Logger
	codec   *token.Codec
	service *Service
	header  string
	prefix  string
	metrics OutcomeRecorder
}

// NewAuthenticator constructs an Authenticator. header names the inbound
// header and prefix is stripped from its value when present ("Bearer ").
// metrics may be nil.
func NewAuthenticator(logger *slog.Logger, codec *token.Codec, service *Service, header, prefix string, metrics OutcomeRecorder) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	if header == "" {
		header = "Authorization"
	}
	return &Authenticator{
		logger:  logger,
		codec:   codec,
		service: service,
		header:  header,
		prefix:  prefix,
		metrics: metrics,
	}
}

// Middleware runs the pipeline at most once per request. A missing token is
// not a failure: the request proceeds unauthenticated and route guards
// decide whether that is acceptable.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := a.resolveToken(r.Header.Get(a.header))
		if tokenString == "" {
			a.record(OutcomeAnonymous)
			next.ServeHTTP(w, r)
			return
		}

		if PrincipalFromContext(r.Context()) != nil {
			a.record(OutcomeSkipped)
			next.ServeHTTP(w, r)
			return
		}

		principal, ok := a.authenticate(r, tokenString)
		if !ok {
			a.record(OutcomeUnauthenticated)
			next.ServeHTTP(w, r)
			return
		}

		a.record(OutcomeAuthenticated)
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// authenticate walks token validation, subject extraction and principal
// reconstruction. Any collaborator error, including request cancellation
// while the directory call is outstanding, collapses to "not ok" so partial
// authentication is never committed and no error escapes to the transport.
func (a *Authenticator) authenticate(r *http.Request, tokenString string) (*AuthenticatedUser, bool) {
	if !a.codec.Validate(tokenString) {
		a.logger.Warn("invalid token", slog.String("path", r.URL.Path))
		return nil, false
	}

	subject, ok := a.codec.Subject(tokenString)
	if !ok || strings.TrimSpace(subject) == "" {
		a.logger.Warn("token carries no subject", slog.String("path", r.URL.Path))
		return nil, false
	}

	principal, err := a.service.Load(r.Context(), subject)
	if err != nil {
		a.logger.Warn("principal load failed",
			slog.String("username", subject),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		return nil, false
	}
	if err := r.Context().Err(); err != nil {
		a.logger.Warn("request cancelled during authentication", slog.String("username", subject))
		return nil, false
	}
	return principal, true
}

// resolveToken strips the configured prefix when present; a header without
// it is treated as the raw token.
func (a *Authenticator) resolveToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if a.prefix != "" && strings.HasPrefix(header, a.prefix) {
		return strings.TrimSpace(header[len(a.prefix):])
	}
	return header
}

func (a *Authenticator) record(outcome string) {
	if a.metrics != nil {
		a.metrics.AuthOutcome(outcome)
	}
}

// RequireAuthenticated rejects anonymous requests with the 401 envelope.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) == nil {
			httpx.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthority admits principals holding at least one of the given
// authorities. Anonymous requests get 401; authenticated ones lacking every
// authority get 403.
func RequireAuthority(authorities ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Unauthorized(w)
				return
			}
			for _, authority := range authorities {
				if principal.HasAuthority(authority) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Forbidden(w)
		})
	}
}

// RequireRole admits principals holding at least one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Unauthorized(w)
				return
			}
			for _, role := range roles {
				if principal.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Forbidden(w)
		})
	}
}
