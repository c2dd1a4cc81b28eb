package db

import (
	"context"
	"database/sql"
	"fmt"
)

// 貸出種別の初期データ。コード→貸出可能日数。
// 貸出作成より前に必ず存在している必要があるので、起動時に投入する。
var defaultLoanTypes = []struct {
	LoanType  int
	NumOfDays int
}{
	{1, 21},
	{2, 14},
	{3, 7},
}

// SeedLoanTypes: 再起動しても安全なように ON DUPLICATE KEY UPDATE で投入
func SeedLoanTypes(ctx context.Context, db *sql.DB) error {
	const q = `
	INSERT INTO loan_types (loan_type, num_of_days)
	VALUES (?, ?)
	ON DUPLICATE KEY UPDATE num_of_days = VALUES(num_of_days)`

	for _, lt := range defaultLoanTypes {
		if _, err := db.ExecContext(ctx, q, lt.LoanType, lt.NumOfDays); err != nil {
			return fmt.Errorf("loan_typesの初期化失敗 (type=%d): %w", lt.LoanType, err)
		}
	}
	return nil
}
