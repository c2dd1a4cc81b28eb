package loans

import (
	"context"
	"database/sql"
	"log"
	"time"

	"LARS-backend/internal/library/loanpolicy"
	"LARS-backend/internal/platform/apperr"
	"LARS-backend/internal/platform/db"
)

type LoanStore interface {
	OpenLoan(ctx context.Context, m *Loan) error
	CloseLoan(ctx context.Context, loanID int64, today time.Time) (*Loan, error)
	ListActive(ctx context.Context) ([]Loan, error)
	ListLate(ctx context.Context) ([]Loan, error)
	ListByUsername(ctx context.Context, username string) ([]CustomerLoanRow, error)
}

type Store struct {
	db     *sql.DB
	policy loanpolicy.DaysSource
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn, policy: loanpolicy.NewStore(conn)}
}

const loanCols = `id, loan_ulid, customer_id, book_id, loan_date, expected_return_date, return_date, is_late, late_days, active`

// OpenLoan handles the full transaction flow for opening a loan.
// 貸出中の本に二重で貸出行を作らないことをここで保証する。
func (s *Store) OpenLoan(ctx context.Context, m *Loan) error {
	return db.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx db.DBTX) error {
		// 1. 本の行をロック
		const bq = `SELECT book_loan_type, is_loaned, active FROM books WHERE id = ? LIMIT 1 FOR UPDATE`
		var loanType int
		var isLoaned, bookActive bool
		if err := tx.QueryRowContext(ctx, bq, m.BookID).Scan(&loanType, &isLoaned, &bookActive); err != nil {
			if err == sql.ErrNoRows {
				return apperr.ErrNotFound("book not found")
			}
			return err
		}
		if !bookActive {
			return apperr.ErrNotFound("book not found")
		}
		if isLoaned {
			// 旧実装はここで黙ってコミットしていた。呼び出し側の誤りなので明示的に返す。
			return apperr.ErrConflict("book is already on loan")
		}

		// 2. 利用者の確認
		const cq = `SELECT active FROM customers WHERE id = ? LIMIT 1`
		var custActive bool
		if err := tx.QueryRowContext(ctx, cq, m.CustomerID).Scan(&custActive); err != nil {
			if err == sql.ErrNoRows {
				return apperr.ErrNotFound("customer not found")
			}
			return err
		}
		if !custActive {
			return apperr.ErrNotFound("customer not found")
		}

		// 3. 貸出期間の解決（未登録コードはここで中断する）
		days, err := s.policy.Days(ctx, loanType)
		if err != nil {
			return err
		}
		m.LoanDate = loanpolicy.DateOnly(m.LoanDate)
		m.ExpectedReturn = loanpolicy.ExpectedReturn(m.LoanDate, days)

		// 4. 貸出行のINSERT
		const iq = `
		INSERT INTO loans
		(loan_ulid, customer_id, book_id, loan_date, expected_return_date, is_late, late_days, active)
		VALUES (?, ?, ?, ?, ?, 0, 0, 1)`
		res, err := tx.ExecContext(ctx, iq, m.LoanULID, m.CustomerID, m.BookID, m.LoanDate, m.ExpectedReturn)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		m.ID = id
		m.Active = true

		// 5. フラグ反転
		const uq = `UPDATE books SET is_loaned = 1 WHERE id = ?`
		ures, err := tx.ExecContext(ctx, uq, m.BookID)
		if err != nil {
			return err
		}
		if aff, _ := ures.RowsAffected(); aff != 1 {
			return apperr.ErrInternal("failed to update books.is_loaned")
		}
		return nil
	})
}

// CloseLoan handles the full transaction flow for returning a book.
// 本の行が消えていても貸出は閉じる。不整合はログに残すだけで致命扱いにしない。
func (s *Store) CloseLoan(ctx context.Context, loanID int64, today time.Time) (*Loan, error) {
	var m Loan
	returned := loanpolicy.DateOnly(today)

	err := db.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx db.DBTX) error {
		// 1. 貸出行をロック
		const lq = `SELECT ` + loanCols + ` FROM loans WHERE id = ? LIMIT 1 FOR UPDATE`
		err := tx.QueryRowContext(ctx, lq, loanID).Scan(
			&m.ID, &m.LoanULID, &m.CustomerID, &m.BookID, &m.LoanDate, &m.ExpectedReturn,
			&m.ReturnDate, &m.IsLate, &m.LateDays, &m.Active,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return apperr.ErrNotFound("loan not found")
			}
			return err
		}
		if !m.Active {
			return apperr.ErrConflict("loan is already closed")
		}

		// 2. 遅延判定は返却時にのみ行う
		isLate, lateDays := loanpolicy.Lateness(m.ExpectedReturn, returned)

		const uq = `
		UPDATE loans SET active = 0, return_date = ?, is_late = ?, late_days = ?
		WHERE id = ?`
		if _, err := tx.ExecContext(ctx, uq, returned, isLate, lateDays, m.ID); err != nil {
			return err
		}

		// 3. 本を返却可能に戻す（ベストエフォート）
		const bq = `UPDATE books SET is_loaned = 0 WHERE id = ?`
		res, err := tx.ExecContext(ctx, bq, m.BookID)
		if err != nil {
			return err
		}
		// RowsAffected は変更行数なので、本が消えている場合とフラグが既に0の場合を区別できない
		if aff, _ := res.RowsAffected(); aff == 0 {
			log.Printf("[WARN] book %d missing or flag already clear while closing loan %d", m.BookID, m.ID)
		}

		m.Active = false
		m.ReturnDate = sql.NullTime{Time: returned, Valid: true}
		m.IsLate = isLate
		m.LateDays = lateDays
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListActive(ctx context.Context) ([]Loan, error) {
	q := `SELECT ` + loanCols + ` FROM loans WHERE active = 1`
	return s.list(ctx, q)
}

// ListLate: 遅延して返却された貸出。is_late は返却時にのみ立つ。
func (s *Store) ListLate(ctx context.Context) ([]Loan, error) {
	q := `SELECT ` + loanCols + ` FROM loans WHERE is_late = 1`
	return s.list(ctx, q)
}

func (s *Store) list(ctx context.Context, q string, args ...any) ([]Loan, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var m Loan
		if err := rows.Scan(
			&m.ID, &m.LoanULID, &m.CustomerID, &m.BookID, &m.LoanDate, &m.ExpectedReturn,
			&m.ReturnDate, &m.IsLate, &m.LateDays, &m.Active,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUsername: 閉じた貸出も含む履歴。利用者や本が論理削除されても行は残る。
func (s *Store) ListByUsername(ctx context.Context, username string) ([]CustomerLoanRow, error) {
	const uq = `SELECT id FROM customers WHERE username = ? LIMIT 1`
	var custID int64
	if err := s.db.QueryRowContext(ctx, uq, username).Scan(&custID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound("user not found")
		}
		return nil, err
	}

	const q = `
	SELECT
		l.id, l.loan_ulid, l.customer_id, l.book_id, l.loan_date, l.expected_return_date,
		l.return_date, l.is_late, l.late_days, l.active,
		b.name, b.author, b.publish_year
	FROM loans l
	JOIN books b ON b.id = l.book_id
	WHERE l.customer_id = ?
	ORDER BY l.loan_date DESC`

	rows, err := s.db.QueryContext(ctx, q, custID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerLoanRow
	for rows.Next() {
		var r CustomerLoanRow
		if err := rows.Scan(
			&r.ID, &r.LoanULID, &r.CustomerID, &r.BookID, &r.LoanDate, &r.ExpectedReturn,
			&r.ReturnDate, &r.IsLate, &r.LateDays, &r.Active,
			&r.BookName, &r.BookAuthor, &r.PublishYear,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
