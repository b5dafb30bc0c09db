package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAccountTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL,
		strasse TEXT NOT NULL,
		plz TEXT NOT NULL,
		stadt TEXT NOT NULL,
		land TEXT NOT NULL,
		firmenname TEXT,
		ust_idnr TEXT,
		password_hash TEXT NOT NULL,
		token_balance INTEGER NOT NULL,
		tokens_expire_at DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		verification_token TEXT,
		credential_version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		verified_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPasswordResetTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE password_resets (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		used BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}
