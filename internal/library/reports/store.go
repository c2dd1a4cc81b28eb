package reports

import (
	"context"
	"database/sql"
	"time"

	"LARS-backend/internal/platform/db"
)

// LateLoanRow は遅延返却レポートの1行
type LateLoanRow struct {
	LoanID         int64
	LoanULID       string
	CustomerName   string
	BookName       string
	ExpectedReturn time.Time
	ReturnDate     time.Time
	LateDays       int
}

type ReportStore interface {
	ListLateLoans(ctx context.Context) ([]LateLoanRow, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// 複数テーブルを読むので一貫したスナップショットで取る。
func (s *Store) ListLateLoans(ctx context.Context) ([]LateLoanRow, error) {
	const q = `
	SELECT
		l.id, l.loan_ulid,
		CONCAT(c.first_name, ' ', c.last_name),
		b.name,
		l.expected_return_date, l.return_date, l.late_days
	FROM loans l
	JOIN customers c ON c.id = l.customer_id
	JOIN books b ON b.id = l.book_id
	WHERE l.is_late = 1
	ORDER BY l.return_date DESC`

	var out []LateLoanRow
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r LateLoanRow
			if err := rows.Scan(
				&r.LoanID, &r.LoanULID, &r.CustomerName, &r.BookName,
				&r.ExpectedReturn, &r.ReturnDate, &r.LateDays,
			); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
