package books

import (
	"context"
	"database/sql"
	"time"

	"LARS-backend/internal/library/validate"
	"LARS-backend/internal/platform/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store BookStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

// テスト用
func NewServiceWith(store BookStore, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

// 蔵書登録
func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	if err := validate.BookName(req.Name); err != nil {
		return nil, err
	}
	if err := validate.BookAuthor(req.Author); err != nil {
		return nil, err
	}
	if err := validate.PublishYear(req.PublishYear, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := validate.LoanType(req.BookLoanType); err != nil {
		return nil, err
	}

	b := &Book{
		Name:        req.Name,
		Author:      req.Author,
		PublishYear: req.PublishYear,
		LoanType:    req.BookLoanType,
		IsLoaned:    false,
		Active:      true,
	}
	id, err := s.store.Insert(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id

	resp := toResponse(b)
	return &resp, nil
}

func (s *Service) ListActive(ctx context.Context) ([]BookResponse, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BookResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, nil
}

// GuestList: 未認証向け。縮小ビューで返す。
func (s *Service) GuestList(ctx context.Context) ([]GuestBookResponse, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GuestBookResponse, 0, len(items))
	for _, b := range items {
		out = append(out, GuestBookResponse{
			Name:        b.Name,
			Author:      b.Author,
			PublishYear: b.PublishYear,
			IsLoaned:    b.IsLoaned,
		})
	}
	return out, nil
}

// Delete: 論理削除。既存の貸出行には波及しない。
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound("book not found")
	}
	return nil
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]BookResponse, error) {
	items, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]BookResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, nil
}

func toResponse(b *Book) BookResponse {
	return BookResponse{
		ID:           b.ID,
		Name:         b.Name,
		Author:       b.Author,
		PublishYear:  b.PublishYear,
		BookLoanType: b.LoanType,
		IsLoaned:     b.IsLoaned,
	}
}
