package cmd

import (
	"context"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	twitterModel "github.com/Laisky/twitter-clone/internal/web/twitter/model"
	userSvc "github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/log"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "migrate",
	Long:  `migrate db`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := withConnectTimeout(context.Background())
		defer cancel()

		db, err := openDB(ctx)
		if err != nil {
			log.Logger.Panic("open db", zap.Error(err))
		}
		defer gormdb.Close(db) // nolint: errcheck

		if err = migrateAll(ctx, db); err != nil {
			log.Logger.Panic("migrate", zap.Error(err))
		}
		log.Logger.Info("migrate done")
	},
}

// migrateAll creates or updates every table the api reads.
func migrateAll(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := userSvc.Migrate(db); err != nil {
		return errors.Wrap(err, "migrate users")
	}
	if err := twitterModel.Migrate(db); err != nil {
		return errors.Wrap(err, "migrate tweets")
	}

	return nil
}

func init() {
	rootCMD.AddCommand(migrateCMD)
}
