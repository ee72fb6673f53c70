package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JWTSecret signs every token issued in tests
const JWTSecret = "test-secret"

// OpenInMemoryDB opens a private in-memory SQLite database and applies migrations.
// The connection is closed through t.Cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	gdb, err := db.OpenDriver(config.DriverSQLite, dsn, true)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

// OpenFileDB opens a migrated SQLite file in t.TempDir() with a pool of maxConns connections.
// Transactions take the write lock at BEGIN and wait up to 5s for it.
func OpenFileDB(t *testing.T, maxConns int) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") +
		"?_foreign_keys=1&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"
	gdb, err := db.OpenDriver(config.DriverSQLite, dsn, true)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(maxConns)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

// NewRedis starts an in-process Redis and returns a client for it
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// CreateUser inserts a user with the given role and password "password1234"
func CreateUser(t *testing.T, gdb *gorm.DB, email, role string) domain.User {
	t.Helper()
	hash, err := utils.HashPassword("password1234")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := domain.User{Name: "Test " + role, Email: email, PasswordHash: hash, Role: role}
	if err := gdb.WithContext(context.Background()).Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateProduct inserts a product with the given name and price
func CreateProduct(t *testing.T, gdb *gorm.DB, name string, price int64) domain.Product {
	t.Helper()
	p := domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromInt(price),
		ImageURL:    "/" + name + ".jpg",
	}
	if err := gdb.WithContext(context.Background()).Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

// Token returns a signed session token for the user
func Token(t *testing.T, u domain.User) string {
	t.Helper()
	tok, _, err := utils.GenerateJWT(u.ID, u.Role, JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}
