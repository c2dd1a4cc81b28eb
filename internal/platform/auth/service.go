package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"LARS-backend/internal/platform/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store  CredentialStore
	secret []byte
	expiry time.Duration
	clock  Clock
}

func NewService(db *sql.DB, secret string, expiryMinutes int) *Service {
	return &Service{
		store:  NewStore(db),
		secret: []byte(secret),
		expiry: time.Duration(expiryMinutes) * time.Minute,
		clock:  realClock{},
	}
}

// テスト用
func NewServiceWith(store CredentialStore, secret string, expiryMinutes int, clock Clock) *Service {
	return &Service{
		store:  store,
		secret: []byte(secret),
		expiry: time.Duration(expiryMinutes) * time.Minute,
		clock:  clock,
	}
}

func (s *Service) Secret() []byte { return s.secret }

type LoginResult struct {
	Token string
	Role  string
}

// Login: 認証失敗の理由は返さない（存在確認に使われないように）
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	cred, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if cred == nil || !cred.Active {
		return nil, apperr.ErrUnauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrUnauthorized("invalid username or password")
	}

	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  cred.Username,
		"role": cred.Role,
		"exp":  now.Add(s.expiry).Unix(),
		"iat":  now.Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tokenString, Role: cred.Role}, nil
}

// RoleFor: トークンは身元の証明としてのみ使い、roleはstoreから引き直す。
// 発行後に権限が変わっていてもここで追従する。
func (s *Service) RoleFor(ctx context.Context, username string) (string, error) {
	return s.store.GetRole(ctx, username)
}
