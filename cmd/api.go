package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/twitter-clone/internal/web"
	twitterCtl "github.com/Laisky/twitter-clone/internal/web/twitter/controller"
	twitterSvc "github.com/Laisky/twitter-clone/internal/web/twitter/service"
	userCtl "github.com/Laisky/twitter-clone/internal/web/user/controller"
	userSvc "github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/auth"
	"github.com/Laisky/twitter-clone/library/config"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/jwt"
	"github.com/Laisky/twitter-clone/library/log"
	"github.com/Laisky/twitter-clone/library/throttle"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `serve the tweet, engagement and timeline http api`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runAPI(ctx); err != nil {
			log.Logger.Panic("run api", zap.Error(err))
		}
	},
}

func runAPI(ctx context.Context) error {
	connCtx, cancel := withConnectTimeout(ctx)
	db, err := openDB(connCtx)
	cancel()
	if err != nil {
		return errors.Wrap(err, "open db")
	}
	defer func() {
		if err := gormdb.Close(db); err != nil {
			log.Logger.Warn("close db", zap.Error(err))
		}
	}()

	users, err := userSvc.NewService(db, log.Logger.Named("user_svc"))
	if err != nil {
		return errors.Wrap(err, "new user service")
	}
	tweets, err := twitterSvc.New(db, users, log.Logger.Named("twitter_svc"))
	if err != nil {
		return errors.Wrap(err, "new twitter service")
	}

	provider, err := newAuthProvider(users)
	if err != nil {
		return errors.Wrap(err, "setup auth")
	}

	writeThrottle, err := newWriteThrottle()
	if err != nil {
		return errors.Wrap(err, "new write throttle")
	}

	server := web.NewServer(web.Options{
		URLPrefix:      config.GetStringOr("settings.web.url_prefix", config.DefaultURLPrefix),
		AllowedOrigins: gconfig.Shared.GetStringSlice("settings.web.allowed_origins"),
		RequestTimeout: time.Duration(config.GetIntOr(
			"settings.web.request_timeout_ms", config.DefaultRequestTimeoutMs)) * time.Millisecond,
		WriteThrottle: writeThrottle,
		Debug:         gconfig.Shared.GetBool("debug"),
	},
		provider,
		twitterCtl.New(tweets),
		userCtl.New(users),
	)

	return web.RunServer(ctx, gconfig.Shared.GetString("listen"), server)
}

// newAuthProvider binds the token codec for settings.secret to users.
func newAuthProvider(users auth.UserLoader) (*auth.Provider, error) {
	codec, err := jwt.New([]byte(gconfig.Shared.GetString("settings.secret")))
	if err != nil {
		return nil, errors.Wrap(err, "new jwt")
	}

	return auth.NewProvider(codec, users, principalCacheTTL())
}

// principalCacheTTL reads settings.auth.principal_cache_ttl_seconds, where 0 disables the cache.
func principalCacheTTL() time.Duration {
	if gconfig.Shared.Get("settings.auth.principal_cache_ttl_seconds") == nil {
		return config.DefaultPrincipalCacheTTLSecond * time.Second
	}

	return time.Duration(gconfig.Shared.GetInt("settings.auth.principal_cache_ttl_seconds")) * time.Second
}

// newWriteThrottle builds the throttle from settings.web.throttle,
// returns nil when it is not configured.
func newWriteThrottle() (*throttle.Throttle, error) {
	if gconfig.Shared.Get("settings.web.throttle") == nil {
		return nil, nil
	}

	return throttle.New(throttle.Config{
		TotalNPerSec: gconfig.Shared.GetInt("settings.web.throttle.total_per_sec"),
		TotalBurst:   gconfig.Shared.GetInt("settings.web.throttle.total_burst"),
		EachNPerSec:  gconfig.Shared.GetInt("settings.web.throttle.each_per_sec"),
		EachBurst:    gconfig.Shared.GetInt("settings.web.throttle.each_burst"),
	})
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
