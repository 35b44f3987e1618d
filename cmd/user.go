package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	userSvc "github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/log"
)

var userCMD = &cobra.Command{
	Use:   "user",
	Short: "user",
	Long:  `manage user records`,
	Args:  gcmd.NoExtraArgs,
}

var userAddCMD = &cobra.Command{
	Use:   "add",
	Short: "add user",
	Long: `add a user record.

Example:
  twitter-clone user add --user_id=alice --username=Alice --email=alice@example.com`,
	Args: gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withConnectTimeout(cmd.Context())
		defer cancel()

		db, err := openDB(ctx)
		if err != nil {
			return errors.Wrap(err, "open db")
		}
		defer gormdb.Close(db) // nolint: errcheck

		svc, err := userSvc.NewService(db, log.Logger.Named("user_svc"))
		if err != nil {
			return errors.Wrap(err, "new user service")
		}

		flags := cmd.Flags()
		userID, _ := flags.GetString("user_id")
		username, _ := flags.GetString("username")
		email, _ := flags.GetString("email")
		profileImg, _ := flags.GetString("profile_img")

		user, err := svc.CreateUser(ctx, userID, username, email, profileImg)
		if err != nil {
			return errors.Wrapf(err, "create user %q", userID)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id=%d)\n", user.UserID, user.ID)
		return nil
	},
}

func init() {
	userAddCMD.Flags().String("user_id", "", "external user id, used as the token subject")
	userAddCMD.Flags().String("username", "", "display name")
	userAddCMD.Flags().String("email", "", "email address")
	userAddCMD.Flags().String("profile_img", "", "profile image url")

	userCMD.AddCommand(userAddCMD)
	rootCMD.AddCommand(userCMD)
}
