package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/bookstore/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "app", DBPass: "pw", DBHost: "db", DBPort: "3307", DBName: "bookstore"})
	mc, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", mc.User)
	assert.Equal(t, "pw", mc.Passwd)
	assert.Equal(t, "db:3307", mc.Addr)
	assert.Equal(t, "bookstore", mc.DBName)
	assert.True(t, mc.ParseTime)
	assert.True(t, mc.ClientFoundRows)
	assert.Equal(t, "UTC", mc.Loc.String())
}

func TestSeedData(t *testing.T) {
	data, err := loadSeed()
	require.NoError(t, err)
	require.Len(t, data.Users, 2)
	require.Len(t, data.Books, 12)
	assert.Equal(t, "ldubois", data.Users[0].Username)
	assert.Equal(t, "Pride and Prejudice", data.Books[0].Title)
	assert.Equal(t, "12.9", data.Books[0].Price.String())
	assert.Equal(t, 1, data.Books[11].Stock)
	for i, b := range data.Books {
		assert.Equal(t, uint64(i+1), b.Reference)
		assert.NotEmpty(t, b.Cover)
		assert.NotEmpty(t, b.Description)
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	for _, s := range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + s.table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSkipsExistingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1062})
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			mock.ExpectExec("INSERT INTO books").WillReturnResult(sqlmock.NewResult(0, 1))
		} else {
			mock.ExpectExec("INSERT INTO books").WillReturnError(&mysql.MySQLError{Number: 1062})
		}
	}

	res, err := Seed(context.Background(), db, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Users: 1, Books: 6}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}
