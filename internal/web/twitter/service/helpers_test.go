package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
	userService "github.com/Laisky/twitter-clone/internal/web/user/service"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
)

type fixture struct {
	db    *gorm.DB
	svc   *Service
	users *userService.Service
}

// newFixture opens a private in-memory database for the calling test.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gormdb.Open(context.Background(), gormdb.Options{
		Driver: gormdb.DriverSqlite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })

	users, err := userService.NewService(db, nil)
	require.NoError(t, err)
	svc, err := New(db, users, nil)
	require.NoError(t, err)

	return &fixture{db: db, svc: svc, users: users}
}

func (f *fixture) user(t *testing.T, handle string) *userModel.User {
	t.Helper()

	u, err := f.users.CreateUser(context.Background(), handle, strings.ToUpper(handle), handle+"@example.com", "https://img.example.com/"+handle+".png")
	require.NoError(t, err)
	return u
}

func (f *fixture) follow(t *testing.T, follower, target *userModel.User) {
	t.Helper()
	require.NoError(t, f.users.Follow(context.Background(), follower, target.UserID))
}

func (f *fixture) count(t *testing.T, table any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(table).Count(&n).Error)
	return n
}
