package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
	userService "github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/jwt"
)

type stubUsers struct {
	calls atomic.Int32
	users map[string]*userModel.User
}

func (s *stubUsers) LoadByUserID(_ context.Context, userID string) (*userModel.User, error) {
	s.calls.Add(1)
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, userService.ErrUserNotFound
}

func newTestProvider(t *testing.T, ttl time.Duration) (*Provider, *stubUsers, *jwt.JWT) {
	t.Helper()

	codec, err := jwt.New([]byte("test-secret"))
	require.NoError(t, err)
	users := &stubUsers{users: map[string]*userModel.User{
		"alice": {ID: 1, UserID: "alice", Username: "Alice"},
	}}
	p, err := NewProvider(codec, users, ttl)
	require.NoError(t, err)
	return p, users, codec
}

func sign(t *testing.T, codec *jwt.JWT, subject string) string {
	t.Helper()

	now := time.Now()
	token, err := codec.Sign(&jwt.UserClaims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
	}})
	require.NoError(t, err)
	return token
}

func TestResolve(t *testing.T) {
	t.Parallel()
	p, users, codec := newTestProvider(t, time.Minute)
	ctx := context.Background()
	token := sign(t, codec, "alice")

	for _, header := range []string{"JWT " + token, "Bearer " + token, "jwt " + token} {
		u, err := p.Resolve(ctx, header)
		require.NoError(t, err)
		require.Equal(t, uint64(1), u.ID)
	}
	require.Equal(t, int32(1), users.calls.Load())

	_, err := p.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = p.Resolve(ctx, "JWT not-a-token")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = p.Resolve(ctx, "JWT "+sign(t, codec, "ghost"))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveWithoutCache(t *testing.T) {
	t.Parallel()
	p, users, codec := newTestProvider(t, 0)
	token := sign(t, codec, "alice")

	for range 3 {
		_, err := p.Resolve(context.Background(), "JWT "+token)
		require.NoError(t, err)
	}
	require.Equal(t, int32(3), users.calls.Load())
}

func TestMiddlewares(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	p, _, codec := newTestProvider(t, time.Minute)
	token := sign(t, codec, "alice")

	router := gin.New()
	handler := func(c *gin.Context) {
		user, ok := GetPrincipal(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.UserID)
	}
	router.GET("/required", p.Required(), handler)
	router.GET("/optional", p.Optional(), handler)

	cases := []struct {
		path, header string
		code         int
		body         string
	}{
		{"/required", "JWT " + token, http.StatusOK, "alice"},
		{"/required", "", http.StatusUnauthorized, ""},
		{"/required", "JWT broken", http.StatusUnauthorized, ""},
		{"/optional", "", http.StatusOK, "anonymous"},
		{"/optional", "JWT broken", http.StatusOK, "anonymous"},
		{"/optional", "Bearer " + token, http.StatusOK, "alice"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, tc.code, w.Code, "%s %q", tc.path, tc.header)
		if tc.body != "" {
			require.Equal(t, tc.body, w.Body.String())
		} else {
			require.Contains(t, w.Body.String(), "message")
		}
	}
}
