// Package auth resolves Authorization headers into user principals.
package auth

import (
	"context"
	"net/http"
	"time"

	errors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
	"github.com/Laisky/twitter-clone/library/jwt"
	"github.com/Laisky/twitter-clone/library/log"
)

const principalCtxKey = "twitter_principal"

// ErrUnauthorized indicates the request carries no usable credentials.
var ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")

// UserLoader looks a principal up by the token subject.
type UserLoader interface {
	LoadByUserID(ctx context.Context, userID string) (*userModel.User, error)
}

// Provider turns tokens into users, caching hits for a short ttl.
type Provider struct {
	codec *jwt.JWT
	users UserLoader
	cache *cache.Cache
	ttl   time.Duration
}

// NewProvider creates a Provider. ttl <= 0 disables the cache.
func NewProvider(codec *jwt.JWT, users UserLoader, ttl time.Duration) (*Provider, error) {
	if codec == nil {
		return nil, errors.New("jwt codec is required")
	}
	if users == nil {
		return nil, errors.New("user loader is required")
	}

	p := &Provider{codec: codec, users: users, ttl: ttl}
	if ttl > 0 {
		p.cache = cache.New(ttl, 2*ttl)
	}

	return p, nil
}

// Resolve returns the user the Authorization header belongs to.
func (p *Provider) Resolve(ctx context.Context, header string) (*userModel.User, error) {
	claims, err := p.codec.Parse(jwt.StripAuthPrefix(header))
	if err != nil {
		return nil, errors.Wrap(ErrUnauthorized, err.Error())
	}

	if p.cache != nil {
		if x, found := p.cache.Get(claims.Subject); found {
			return x.(*userModel.User), nil
		}
	}

	user, err := p.users.LoadByUserID(ctx, claims.Subject)
	if err != nil {
		return nil, errors.Wrapf(ErrUnauthorized, "load principal %q: %v", claims.Subject, err)
	}

	if p.cache != nil {
		p.cache.Set(claims.Subject, user, p.ttl)
	}
	return user, nil
}

// Required rejects requests without a valid principal with 401.
func (p *Provider) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := p.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			log.FromContext(c).Debug("reject unauthenticated request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": ErrUnauthorized.Error()})
			return
		}

		SetPrincipal(c, user)
		c.Next()
	}
}

// Optional attaches the principal when the request carries a valid token
// and lets anonymous requests through.
func (p *Provider) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if user, err := p.Resolve(c.Request.Context(), header); err == nil {
				SetPrincipal(c, user)
			} else {
				log.FromContext(c).Debug("ignore invalid optional credentials", zap.Error(err))
			}
		}

		c.Next()
	}
}

// SetPrincipal stores user on the request.
func SetPrincipal(c *gin.Context, user *userModel.User) {
	c.Set(principalCtxKey, user)
}

// GetPrincipal returns the user stored by SetPrincipal.
func GetPrincipal(c *gin.Context) (*userModel.User, bool) {
	v, ok := c.Get(principalCtxKey)
	if !ok {
		return nil, false
	}

	user, ok := v.(*userModel.User)
	return user, ok && user != nil
}
