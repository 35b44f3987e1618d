// Package cmd command line
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Laisky/twitter-clone/library/config"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/log"
)

var rootCMD = &cobra.Command{
	Use:   "twitter-clone",
	Short: "twitter-clone",
	Long:  `tweet, engagement and timeline API service`,
	Args:  gcmd.NoExtraArgs,
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	setupSettings(ctx)
	if err := validateStartupConfig(); err != nil {
		return errors.Wrap(err, "validate configuration")
	}
	setupLogger(ctx)

	return nil
}

func setupSettings(ctx context.Context) {
	// mode
	if gconfig.Shared.GetBool("debug") {
		fmt.Println("run in debug mode")
		gconfig.Shared.Set("log-level", "debug")
	} else { // prod mode
		fmt.Println("run in prod mode")
	}

	// load configuration
	cfgPath := gconfig.Shared.GetString("config")
	config.LoadFromFile(cfgPath)
}

func setupLogger(ctx context.Context) {
	lvl := gconfig.Shared.GetString("log-level")
	if err := log.Logger.ChangeLevel(glog.Level(lvl)); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}

// openDB connects to the record store described by settings.db.
func openDB(ctx context.Context) (*gorm.DB, error) {
	driver := strings.ToLower(config.GetStringOr("settings.db.driver", config.DefaultDBDriver))
	dsn := gconfig.Shared.GetString("settings.db.dsn")
	if dsn == "" && driver == gormdb.DriverSqlite {
		dsn = config.DefaultDBDSN
	}

	return gormdb.Open(ctx, gormdb.Options{
		Driver: driver,
		DSN:    dsn,
		Postgres: gormdb.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.postgres.addr"),
			DBName: gconfig.Shared.GetString("settings.db.postgres.db"),
			User:   gconfig.Shared.GetString("settings.db.postgres.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.postgres.pwd"),
		},
		MaxOpenConns: config.GetIntOr("settings.db.max_open_conns", config.DefaultMaxOpenConns),
		Debug:        gconfig.Shared.GetBool("debug"),
		Logger:       log.Logger.Named("gorm"),
	})
}

// withConnectTimeout bounds how long startup waits on the database.
func withConnectTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().String("listen", "localhost:8080", "like `localhost:8080`")
	rootCMD.PersistentFlags().StringP("config", "c", "/etc/twitter-clone/settings.yml", "config file path")
	rootCMD.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// Execute execute root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		glog.Shared.Panic("start", zap.Error(err))
	}
}
