// Package loanpolicy は貸出種別ごとの貸出期間と遅延判定。
package loanpolicy

import (
	"context"
	"database/sql"
	"time"

	"LARS-backend/internal/platform/apperr"
)

// DaysSource resolves a loan-type code to the allowed number of loan days.
type DaysSource interface {
	Days(ctx context.Context, loanType int) (int, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Days: 未登録コードは UNKNOWN_LOAN_TYPE。デフォルトで握りつぶさない。
func (s *Store) Days(ctx context.Context, loanType int) (int, error) {
	const q = `SELECT num_of_days FROM loan_types WHERE loan_type = ?`
	var days int
	if err := s.db.QueryRowContext(ctx, q, loanType).Scan(&days); err != nil {
		if err == sql.ErrNoRows {
			return 0, apperr.ErrUnknownLoanType(loanType)
		}
		return 0, err
	}
	return days, nil
}

func ExpectedReturn(loanDate time.Time, days int) time.Time {
	return DateOnly(loanDate).AddDate(0, 0, days)
}

// Lateness は返却時にのみ評価する。返却日が期限を過ぎていれば日数差を返す。
func Lateness(expectedReturn, returned time.Time) (isLate bool, lateDays int) {
	e := DateOnly(expectedReturn)
	r := DateOnly(returned)
	if !r.After(e) {
		return false, 0
	}
	return true, int(r.Sub(e).Hours() / 24)
}

// DateOnly: 時刻成分を落とす（貸出・返却はDATE粒度）
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
