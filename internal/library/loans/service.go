package loans

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"LARS-backend/internal/platform/apperr"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	store LoanStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}, id: ulidGen{}}
}

// テスト用
func NewServiceWith(store LoanStore, clock Clock, id IDGen) *Service {
	return &Service{store: store, clock: clock, id: id}
}

// 貸出開始
func (s *Service) Open(ctx context.Context, req OpenLoanRequest) (*LoanResponse, error) {
	if req.BookID <= 0 {
		return nil, apperr.ErrInvalid("bookId must be > 0")
	}
	if req.CustomerID <= 0 {
		return nil, apperr.ErrInvalid("custId must be > 0")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	m := &Loan{
		LoanULID:   idStr,
		CustomerID: req.CustomerID,
		BookID:     req.BookID,
		LoanDate:   s.clock.Now(),
	}
	if err := s.store.OpenLoan(ctx, m); err != nil {
		return nil, err
	}

	resp := toResponse(m)
	return &resp, nil
}

// 返却（貸出を閉じる）
func (s *Service) Close(ctx context.Context, loanID int64) (*LoanResponse, error) {
	if loanID <= 0 {
		return nil, apperr.ErrInvalid("loan id must be > 0")
	}

	m, err := s.store.CloseLoan(ctx, loanID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	resp := toResponse(m)
	return &resp, nil
}

func (s *Service) ListActive(ctx context.Context) ([]LoanResponse, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) ListLate(ctx context.Context) ([]LoanResponse, error) {
	items, err := s.store.ListLate(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// MyBooks: 認証済み利用者自身の貸出履歴
func (s *Service) MyBooks(ctx context.Context, username string) ([]CustomerBookResponse, error) {
	rows, err := s.store.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerBookResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerBookResponse{
			BookName:    r.BookName,
			Author:      r.BookAuthor,
			PublishYear: r.PublishYear,
			IsLate:      r.IsLate,
			Active:      r.Active,
		})
	}
	return out, nil
}

// ヘルパー関数

const dateLayout = "2006-01-02"

func toResponse(m *Loan) LoanResponse {
	resp := LoanResponse{
		ID:                 m.ID,
		LoanULID:           m.LoanULID,
		CustID:             m.CustomerID,
		BookID:             m.BookID,
		LoanDate:           m.LoanDate.Format(dateLayout),
		ExpectedReturnDate: m.ExpectedReturn.Format(dateLayout),
		IsLate:             m.IsLate,
		LateDaysNum:        m.LateDays,
		Active:             m.Active,
	}
	if m.ReturnDate.Valid {
		v := m.ReturnDate.Time.Format(dateLayout)
		resp.ReturnDate = &v
	}
	return resp
}

func toResponses(items []Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out
}
