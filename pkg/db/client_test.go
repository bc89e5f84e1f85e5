package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopper-backend/pkg/config"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&testModel{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)
	require.Equal(t, DialectSQLite, client.Dialect())

	ctx := context.Background()
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "rollback should leave one record")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			_ = tx.Create(&testModel{Name: "panicky"}).Error
			panic("boom")
		})
	})

	var count int64
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	require.NoError(t, client.Ping(context.Background()))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&testModel{Name: "dup"}).Error)

	err := db.Create(&testModel{Name: "dup"}).Error
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err, ""))
	require.False(t, IsUniqueViolation(nil, ""))
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "stores_pkey"})
	require.True(t, IsUniqueViolation(err, ""))
	require.True(t, IsUniqueViolation(err, "stores_pkey"))
	require.False(t, IsUniqueViolation(err, "users_email_key"))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
}

func TestIsTransient(t *testing.T) {
	require.True(t, IsTransient(context.DeadlineExceeded))
	require.True(t, IsTransient(&pgconn.PgError{Code: "08006"}))
	require.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsTransient(errors.New("syntax")))
	require.False(t, IsTransient(nil))
}

func TestIsNotFound(t *testing.T) {
	require.True(t, IsNotFound(fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound)))
	require.False(t, IsNotFound(errors.New("other")))
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	require.Equal(t, "dev.db?_foreign_keys=on", sqliteDSN("dev.db"))
	require.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	require.Equal(t, "dev.db?_fk=0", sqliteDSN("dev.db?_fk=0"))
}

func TestIsForeignKeyViolation_SQLite(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxOpenConns: 1,
	}, true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	require.NoError(t, conn.Exec(`CREATE TABLE owners (id TEXT PRIMARY KEY)`).Error)
	require.NoError(t, conn.Exec(`CREATE TABLE pets (id TEXT PRIMARY KEY, owner_id TEXT NOT NULL REFERENCES owners(id))`).Error)

	err = conn.Exec(`INSERT INTO pets (id, owner_id) VALUES ('p1', 'missing')`).Error
	require.Error(t, err, "orphan insert must be rejected")
	require.True(t, IsForeignKeyViolation(err))
	require.False(t, IsUniqueViolation(err, ""))

	require.NoError(t, conn.Exec(`INSERT INTO owners (id) VALUES ('o1')`).Error)
	require.NoError(t, conn.Exec(`INSERT INTO pets (id, owner_id) VALUES ('p2', 'o1')`).Error)
}

func TestIsForeignKeyViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503", ConstraintName: "stores_created_by_user_id_fkey"})
	require.True(t, IsForeignKeyViolation(err))
	require.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsForeignKeyViolation(nil))
	require.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
}
