package db

import (
	"context"
	"database/sql"
)

// DBTX は *sql.DB と *sql.Tx の共通部分。ストアはこれ越しに実行する。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTx: work が nil を返したときだけ COMMIT する。
// エラー時の ROLLBACK 失敗は握りつぶす（接続断なら元エラーの方が重要）。
func RunInTx(ctx context.Context, conn *sql.DB, opts *sql.TxOptions, work func(ctx context.Context, tx DBTX) error) error {
	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	if err := work(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ReadOnly: 複数テーブルを読むレポート系クエリ用のスナップショット読み
func ReadOnly(ctx context.Context, conn *sql.DB, work func(ctx context.Context, tx DBTX) error) error {
	return RunInTx(ctx, conn, &sql.TxOptions{ReadOnly: true}, work)
}
