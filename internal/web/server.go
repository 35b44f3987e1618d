// Package web gin server
package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Laisky/twitter-clone/library/auth"
	"github.com/Laisky/twitter-clone/library/log"
	"github.com/Laisky/twitter-clone/library/metrics"
	"github.com/Laisky/twitter-clone/library/throttle"
)

// Router mounts a group of endpoints under the api prefix.
type Router interface {
	Register(r gin.IRouter, p *auth.Provider)
}

// Options configures NewServer.
type Options struct {
	URLPrefix string
	// AllowedOrigins lists hosts allowed by CORS. "*.example.com" matches
	// every subdomain, "*" matches any origin.
	AllowedOrigins []string
	RequestTimeout time.Duration
	// WriteThrottle limits non-read requests per client ip, nil disables it.
	WriteThrottle *throttle.Throttle
	Debug         bool
}

// NewServer builds the gin engine with every route mounted.
func NewServer(opt Options, provider *auth.Provider, routers ...Router) *gin.Engine {
	if !opt.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	server := gin.New()
	server.Use(
		gin.Recovery(),
		gmw.NewLoggerMiddleware(
			gmw.WithLogger(log.Logger.Named("gin")),
		),
		allowCORS(opt.AllowedOrigins),
		observeRequests,
	)

	server.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})
	server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := server.Group(opt.URLPrefix,
		withRequestTimeout(opt.RequestTimeout),
		throttleWrites(opt.WriteThrottle),
	)
	for _, r := range routers {
		r.Register(api, provider)
	}

	return server
}

// RunServer serves handler on addr until ctx is done.
func RunServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Logger.Info("listening on http", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server exit")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http server")
	}

	log.Logger.Info("http server stopped")
	return nil
}

// withRequestTimeout bounds every store call made while serving the request.
func withRequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// MsgTooManyRequests is returned when a write is throttled.
const MsgTooManyRequests = "too many requests, slow down"

func throttleWrites(th *throttle.Throttle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if th == nil {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if !th.Allow(c.ClientIP()) {
			metrics.RecordThrottled(c.Request.Method)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": MsgTooManyRequests})
			return
		}
		c.Next()
	}
}

func observeRequests(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
}

// originAllowed reports whether host matches one of the allowlist patterns.
func originAllowed(host string, allowed []string) bool {
	for _, pattern := range allowed {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "":
		case pattern == "*":
			return true
		case strings.HasPrefix(pattern, "*."):
			base := pattern[2:]
			if host == base || strings.HasSuffix(host, "."+base) {
				return true
			}
		case host == pattern:
			return true
		}
	}

	return false
}

func allowCORS(allowed []string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		origin := strings.TrimSpace(ctx.Request.Header.Get("Origin"))
		allowedOrigin := ""

		if origin != "" {
			parsedOriginURL, err := url.Parse(origin)
			if err == nil && parsedOriginURL.Host != "" {
				host := strings.ToLower(parsedOriginURL.Hostname())
				if originAllowed(host, allowed) {
					allowedOrigin = origin
				}
			}
		}

		if allowedOrigin != "" {
			ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Header("Access-Control-Allow-Credentials", "true")
			ctx.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS, HEAD")
			ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Requested-With")
			ctx.Header("Access-Control-Max-Age", "86400")
			ctx.Header("Vary", "Origin")

			if ctx.Request.Method == http.MethodOptions {
				ctx.AbortWithStatus(http.StatusNoContent)
				return
			}
		} else if origin != "" && ctx.Request.Method == http.MethodOptions {
			// preflight from a disallowed origin
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Next()
	}
}
