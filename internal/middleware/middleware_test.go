package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuth struct {
	session domain.Session
}

func (f fakeAuth) Authenticate(token string) (domain.Session, error) {
	if token != "good" {
		return domain.Session{}, errors.New("bad token")
	}
	return f.session, nil
}

func newRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(logger.Nop()))
	handlers := append([]gin.HandlerFunc{AuthMiddleware(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		s, _ := Session(c)
		c.JSON(http.StatusOK, gin.H{"userId": s.UserID.String(), "ctx": c.GetString("userId")})
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	s := domain.Session{UserID: uuid.New(), Role: domain.RoleStudent}
	r := newRouter(fakeAuth{session: s})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.header)
		if tc.status == http.StatusOK {
			assert.Contains(t, w.Body.String(), s.UserID.String())
		}
	}
}

func TestRequireRole(t *testing.T) {
	student := newRouter(fakeAuth{session: domain.Session{UserID: uuid.New(), Role: domain.RoleStudent}}, RequireRole(domain.RoleAdmin))
	admin := newRouter(fakeAuth{session: domain.Session{UserID: uuid.New(), Role: domain.RoleAdmin}}, RequireRole(domain.RoleAdmin))

	for r, want := range map[*gin.Engine]int{student: http.StatusForbidden, admin: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code)
	}
}

func TestRateLimiterWithoutRedisPasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", NewRateLimiter(nil).Limit("login", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestSetSessionRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := Session(c)
	assert.False(t, ok)

	s := domain.Session{UserID: uuid.New(), Role: domain.RoleProfessor}
	SetSession(c, s)
	got, ok := Session(c)
	assert.True(t, ok)
	assert.Equal(t, s, got)
	assert.Equal(t, s.UserID.String(), c.GetString("userId"))
}
