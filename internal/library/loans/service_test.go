package loans_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LARS-backend/internal/library/loanpolicy"
	"LARS-backend/internal/library/loans"
	"LARS-backend/internal/platform/apperr"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedID struct{ v string }

func (g fixedID) New() (string, error) { return g.v, nil }

type fakeLoanStore struct {
	openFn       func(ctx context.Context, m *loans.Loan) error
	closeFn      func(ctx context.Context, loanID int64, today time.Time) (*loans.Loan, error)
	listActiveFn func(ctx context.Context) ([]loans.Loan, error)
	listLateFn   func(ctx context.Context) ([]loans.Loan, error)
	byUsernameFn func(ctx context.Context, username string) ([]loans.CustomerLoanRow, error)
}

func (f *fakeLoanStore) OpenLoan(ctx context.Context, m *loans.Loan) error {
	return f.openFn(ctx, m)
}
func (f *fakeLoanStore) CloseLoan(ctx context.Context, loanID int64, today time.Time) (*loans.Loan, error) {
	return f.closeFn(ctx, loanID, today)
}
func (f *fakeLoanStore) ListActive(ctx context.Context) ([]loans.Loan, error) {
	return f.listActiveFn(ctx)
}
func (f *fakeLoanStore) ListLate(ctx context.Context) ([]loans.Loan, error) {
	return f.listLateFn(ctx)
}
func (f *fakeLoanStore) ListByUsername(ctx context.Context, username string) ([]loans.CustomerLoanRow, error) {
	return f.byUsernameFn(ctx, username)
}

const testULID = "01J0000000000000000000TEST"

var jan1 = fixedClock{t: time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)}

func TestOpenLoan(t *testing.T) {
	store := &fakeLoanStore{
		openFn: func(_ context.Context, m *loans.Loan) error {
			// storeがやることを模倣: 期間解決とID採番
			m.ID = 5
			m.LoanDate = loanpolicy.DateOnly(m.LoanDate)
			m.ExpectedReturn = loanpolicy.ExpectedReturn(m.LoanDate, 14)
			m.Active = true
			return nil
		},
	}
	svc := loans.NewServiceWith(store, jan1, fixedID{v: testULID})

	resp, err := svc.Open(context.Background(), loans.OpenLoanRequest{BookID: 3, CustomerID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, testULID, resp.LoanULID)
	assert.Equal(t, int64(7), resp.CustID)
	assert.Equal(t, int64(3), resp.BookID)
	assert.Equal(t, "2024-01-01", resp.LoanDate)
	assert.Equal(t, "2024-01-15", resp.ExpectedReturnDate)
	assert.Nil(t, resp.ReturnDate)
	assert.False(t, resp.IsLate)
	assert.True(t, resp.Active)
}

func TestOpenLoanRejectsBadIDs(t *testing.T) {
	store := &fakeLoanStore{
		openFn: func(_ context.Context, _ *loans.Loan) error {
			t.Fatal("store must not be reached")
			return nil
		},
	}
	svc := loans.NewServiceWith(store, jan1, fixedID{v: testULID})

	_, err := svc.Open(context.Background(), loans.OpenLoanRequest{BookID: 0, CustomerID: 7})
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))

	_, err = svc.Open(context.Background(), loans.OpenLoanRequest{BookID: 3, CustomerID: -1})
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))
}

func TestOpenLoanPassesThroughConflict(t *testing.T) {
	store := &fakeLoanStore{
		openFn: func(_ context.Context, _ *loans.Loan) error {
			return apperr.ErrConflict("book is already on loan")
		},
	}
	svc := loans.NewServiceWith(store, jan1, fixedID{v: testULID})

	_, err := svc.Open(context.Background(), loans.OpenLoanRequest{BookID: 3, CustomerID: 7})
	assert.Equal(t, 409, apperr.ToHTTPStatus(err))
}

func TestCloseLoanFiveDaysLate(t *testing.T) {
	returned := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	store := &fakeLoanStore{
		closeFn: func(_ context.Context, loanID int64, today time.Time) (*loans.Loan, error) {
			assert.Equal(t, int64(5), loanID)
			expected := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
			isLate, lateDays := loanpolicy.Lateness(expected, today)
			return &loans.Loan{
				ID: 5, LoanULID: testULID, CustomerID: 7, BookID: 3,
				LoanDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				ExpectedReturn: expected,
				ReturnDate:     sql.NullTime{Time: loanpolicy.DateOnly(today), Valid: true},
				IsLate:         isLate,
				LateDays:       lateDays,
				Active:         false,
			}, nil
		},
	}
	svc := loans.NewServiceWith(store, fixedClock{t: returned}, fixedID{v: testULID})

	resp, err := svc.Close(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 5, resp.LateDaysNum)
	require.NotNil(t, resp.ReturnDate)
	assert.Equal(t, "2024-01-20", *resp.ReturnDate)
	assert.False(t, resp.Active)
}

func TestCloseLoanRejectsBadID(t *testing.T) {
	svc := loans.NewServiceWith(&fakeLoanStore{}, jan1, fixedID{v: testULID})

	_, err := svc.Close(context.Background(), 0)
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))
}

func TestListLate(t *testing.T) {
	store := &fakeLoanStore{
		listLateFn: func(_ context.Context) ([]loans.Loan, error) {
			return []loans.Loan{
				{
					ID: 1, LoanULID: testULID, CustomerID: 7, BookID: 3,
					LoanDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
					ExpectedReturn: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
					ReturnDate:     sql.NullTime{Time: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), Valid: true},
					IsLate:         true, LateDays: 5,
				},
			}, nil
		},
	}
	svc := loans.NewServiceWith(store, jan1, fixedID{v: testULID})

	got, err := svc.ListLate(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsLate)
	assert.Equal(t, 5, got[0].LateDaysNum)
}

func TestMyBooks(t *testing.T) {
	store := &fakeLoanStore{
		byUsernameFn: func(_ context.Context, username string) ([]loans.CustomerLoanRow, error) {
			if username != "taro" {
				return nil, apperr.ErrNotFound("user not found")
			}
			return []loans.CustomerLoanRow{
				{
					Loan:     loans.Loan{ID: 1, IsLate: true, Active: false},
					BookName: "Dune", BookAuthor: "Frank Herbert", PublishYear: "1965",
				},
			}, nil
		},
	}
	svc := loans.NewServiceWith(store, jan1, fixedID{v: testULID})

	got, err := svc.MyBooks(context.Background(), "taro")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].BookName)
	assert.True(t, got[0].IsLate)

	_, err = svc.MyBooks(context.Background(), "nobody")
	assert.Equal(t, 404, apperr.ToHTTPStatus(err))
}
