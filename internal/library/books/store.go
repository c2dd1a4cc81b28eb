package books

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect import
)

var dialect = goqu.Dialect("mysql")

type BookStore interface {
	Insert(ctx context.Context, b *Book) (int64, error)
	ListActive(ctx context.Context) ([]Book, error)
	SoftDelete(ctx context.Context, id int64) (int64, error)
	Search(ctx context.Context, q SearchQuery) ([]Book, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, b *Book) (int64, error) {
	const q = `
	INSERT INTO books (name, author, publish_year, book_loan_type, is_loaned, active)
	VALUES (?, ?, ?, ?, 0, 1)`
	res, err := s.db.ExecContext(ctx, q, b.Name, b.Author, b.PublishYear, b.LoanType)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ListActive(ctx context.Context) ([]Book, error) {
	const q = `
	SELECT id, name, author, publish_year, book_loan_type, is_loaned, active
	FROM books WHERE active = 1`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// SoftDelete: 物理削除はしない。貸出履歴が参照し続けるため。
func (s *Store) SoftDelete(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE books SET active = 0 WHERE id = ? AND active = 1`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Search: 条件をAND結合で動的に組み立てる。条件ゼロなら有効な全件。
// MySQLのLIKEはデフォルト照合順序で大文字小文字を区別しない。
func (s *Store) Search(ctx context.Context, f SearchQuery) ([]Book, error) {
	ds := dialect.From("books").
		Select("id", "name", "author", "publish_year", "book_loan_type", "is_loaned", "active").
		Where(goqu.C("active").Eq(1))

	if f.Name != nil {
		ds = ds.Where(goqu.C("name").Like("%" + *f.Name + "%"))
	}
	if f.Author != nil {
		ds = ds.Where(goqu.C("author").Like("%" + *f.Author + "%"))
	}
	if f.PublishYear != nil {
		ds = ds.Where(goqu.C("publish_year").Eq(*f.PublishYear))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func scanBooks(rows *sql.Rows) ([]Book, error) {
	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Name, &b.Author, &b.PublishYear, &b.LoanType, &b.IsLoaned, &b.Active); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
