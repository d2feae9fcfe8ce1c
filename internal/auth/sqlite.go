package auth

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"
)

const defaultAuthDBName = "pokerroom_auth.db"

// SQLiteManager persists accounts and sessions so identities survive a
// server restart.
type SQLiteManager struct {
	db         *sql.DB
	sessionTTL time.Duration
}

func NewSQLiteManagerFromEnv() (*SQLiteManager, error) {
	dbPath := strings.TrimSpace(os.Getenv("AUTH_SQLITE_PATH"))
	if dbPath == "" {
		dbPath = defaultAuthDBName
	}
	return NewSQLiteManager(dbPath)
}

func NewSQLiteManager(dbPath string) (*SQLiteManager, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS accounts (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash BLOB NOT NULL,
    last_login_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
    token      TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    expires_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_account ON sessions (account_id);
`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteManager{db: db, sessionTTL: defaultSessionTTL}, nil
}

func (m *SQLiteManager) Register(username, password string) (accountID, sessionToken string, err error) {
	if err = validateUsername(username); err != nil {
		return "", "", err
	}
	if err = validatePassword(password); err != nil {
		return "", "", err
	}
	normalized := normalizeUsername(username)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	accountID = uuid.NewString()
	now := time.Now()
	if _, err := m.db.ExecContext(ctx, `
INSERT INTO accounts (id, username, password_hash, last_login_at) VALUES (?, ?, ?, ?)
`, accountID, normalized, passwordHash, now); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", "", ErrUsernameTaken
		}
		return "", "", err
	}

	sessionToken, err = m.issueSession(ctx, accountID, now)
	if err != nil {
		return "", "", err
	}
	return accountID, sessionToken, nil
}

func (m *SQLiteManager) Login(username, password string) (accountID, sessionToken string, err error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var passwordHash []byte
	err = m.db.QueryRowContext(ctx, `
SELECT id, password_hash FROM accounts WHERE username = ?
`, normalized).Scan(&accountID, &passwordHash)
	if err == sql.ErrNoRows {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword(passwordHash, []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	now := time.Now()
	if _, err := m.db.ExecContext(ctx, `
UPDATE accounts SET last_login_at = ? WHERE id = ?
`, now, accountID); err != nil {
		return "", "", err
	}
	sessionToken, err = m.issueSession(ctx, accountID, now)
	if err != nil {
		return "", "", err
	}
	return accountID, sessionToken, nil
}

func (m *SQLiteManager) ResolveSession(token string) (accountID, username string, ok bool) {
	if token == "" {
		return "", "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var expiresAt time.Time
	err := m.db.QueryRowContext(ctx, `
SELECT s.account_id, a.username, s.expires_at
FROM sessions s JOIN accounts a ON a.id = s.account_id
WHERE s.token = ?
`, token).Scan(&accountID, &username, &expiresAt)
	if err != nil {
		return "", "", false
	}

	now := time.Now()
	if !now.Before(expiresAt) {
		_, _ = m.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return "", "", false
	}
	// Sliding expiry.
	_, _ = m.db.ExecContext(ctx, `
UPDATE sessions SET expires_at = ? WHERE token = ?
`, now.Add(m.sessionTTL), token)
	return accountID, username, true
}

func (m *SQLiteManager) Logout(token string) {
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, _ = m.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
}

func (m *SQLiteManager) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *SQLiteManager) issueSession(ctx context.Context, accountID string, now time.Time) (string, error) {
	token := mustToken()
	if _, err := m.db.ExecContext(ctx, `
INSERT INTO sessions (token, account_id, expires_at) VALUES (?, ?, ?)
`, token, accountID, now.Add(m.sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}
