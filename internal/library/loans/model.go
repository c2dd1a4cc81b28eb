package loans

import (
	"database/sql"
	"time"
)

// Loan は loans テーブルの1行を表す
type Loan struct {
	ID             int64
	LoanULID       string
	CustomerID     int64
	BookID         int64
	LoanDate       time.Time
	ExpectedReturn time.Time
	ReturnDate     sql.NullTime
	IsLate         bool
	LateDays       int
	Active         bool
}

// 利用者の貸出履歴用（books と JOIN した行）
type CustomerLoanRow struct {
	Loan
	BookName    string
	BookAuthor  string
	PublishYear string
}
