package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"wardaudit/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
	actor  requestcontext.ActorInfo
	next   http.Handler
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.actor = requestcontext.ActorInfo{}
	s.next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.actor = requestcontext.Actor(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	s.Run("missing header is unauthorized", func() {
		rec := httptest.NewRecorder()
		RequireAuth(stubValidator{}, s.logger)(s.next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("invalid token is unauthorized", func() {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		RequireAuth(stubValidator{err: errors.New("bad signature")}, s.logger)(s.next).ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("valid token stores actor", func() {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		v := stubValidator{claims: &JWTClaims{UserID: "u-1", Name: "T. Nkosi", Role: "provincial_admin"}}
		RequireAuth(v, s.logger)(s.next).ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("u-1", s.actor.ID)
		s.Equal("provincial_admin", s.actor.Role)
	})
}

func (s *AuthMiddlewareSuite) TestTokenWithoutSubject() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anonymous")
	rec := httptest.NewRecorder()
	RequireAuth(stubValidator{claims: &JWTClaims{Role: "ward_admin"}}, s.logger)(s.next).ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), `"error":"unauthorized"`)
	s.False(s.actor.Authenticated())
}
