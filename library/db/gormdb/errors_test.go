package gormdb

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	errors "github.com/Laisky/errors/v2"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type uniqueRow struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"gorm duplicated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated", errors.Wrap(gorm.ErrDuplicatedKey, "insert"), true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, false},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062}, true},
		{"mysql other", &mysqlDriver.MySQLError{Number: 1452}, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, IsUniqueViolation(tc.err), tc.name)
	}
}

func TestIsUniqueViolationFromPostgresInsert(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "unique_rows"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err = gdb.WithContext(context.Background()).Create(&uniqueRow{Name: "dup"}).Error
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	require.True(t, IsNotFound(gorm.ErrRecordNotFound))
	require.True(t, IsNotFound(errors.Wrap(gorm.ErrRecordNotFound, "load")))
	require.False(t, IsNotFound(errors.New("other")))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	require.False(t, IsSupportedDriver("oracle"))
	require.True(t, IsSupportedDriver(" Postgres "))
}

func TestOpenSqliteInMemory(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), Options{
		Driver: DriverSqlite,
		DSN:    "file:gormdb_open_test?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, Close(db)) })

	require.NoError(t, db.AutoMigrate(&uniqueRow{}))
	require.NoError(t, db.Create(&uniqueRow{Name: "a"}).Error)

	err = db.Create(&uniqueRow{Name: "a"}).Error
	require.True(t, IsUniqueViolation(err))
}

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	dsn := BuildDSN(DialInfo{Addr: "db", DBName: "twitter", User: "u", Pwd: "p"})
	require.Equal(t, "host=db user=u password=p dbname=twitter port=5432 sslmode=disable TimeZone=UTC", dsn)
}
