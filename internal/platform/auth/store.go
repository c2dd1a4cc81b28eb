package auth

import (
	"context"
	"database/sql"
	"errors"
)

// Credential は customers テーブルの認証に必要な列だけを持つ
type Credential struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	Active       bool
}

type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*Credential, error)
	GetRole(ctx context.Context, username string) (string, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) CredentialStore {
	return &Store{db: db}
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*Credential, error) {
	const q = `
SELECT id, username, password_hash, role, active
FROM customers
WHERE username = ?
LIMIT 1
`
	var c Credential
	err := s.db.QueryRowContext(ctx, q, username).Scan(
		&c.ID,
		&c.Username,
		&c.PasswordHash,
		&c.Role,
		&c.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetRole: 現在のroleを毎回引き直す。見つからない・無効なら空文字。
func (s *Store) GetRole(ctx context.Context, username string) (string, error) {
	const q = `SELECT role FROM customers WHERE username = ? AND active = 1 LIMIT 1`
	var role string
	err := s.db.QueryRowContext(ctx, q, username).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}
