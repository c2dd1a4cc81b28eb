package customers

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect import
)

var dialect = goqu.Dialect("mysql")

type CustomerStore interface {
	Insert(ctx context.Context, c *Customer) (int64, error)
	ListActive(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	SoftDelete(ctx context.Context, id int64) (int64, error)
	UpdateFields(ctx context.Context, id int64, p FieldPatch) (int64, error)
	UpdateAge(ctx context.Context, id int64, age int) error
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error)
	Search(ctx context.Context, q SearchQuery) ([]Customer, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const customerCols = `id, first_name, last_name, age, birth_date, city, email, phone_number, username, password_hash, role, active`

func (s *Store) Insert(ctx context.Context, c *Customer) (int64, error) {
	const q = `
	INSERT INTO customers
	(first_name, last_name, age, birth_date, city, email, phone_number, username, password_hash, role, active)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	res, err := s.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.Age, c.BirthDate, c.City,
		c.Email, c.PhoneNumber, c.Username, c.PasswordHash, c.Role,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ListActive(ctx context.Context) ([]Customer, error) {
	q := `SELECT ` + customerCols + ` FROM customers WHERE active = 1`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Customer, error) {
	q := `SELECT ` + customerCols + ` FROM customers WHERE id = ? LIMIT 1`
	var c Customer
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.BirthDate, &c.City,
		&c.Email, &c.PhoneNumber, &c.Username, &c.PasswordHash, &c.Role, &c.Active,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) SoftDelete(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE customers SET active = 0 WHERE id = ? AND active = 1`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateFields: 動的アップデート。nil のフィールドは SET に含めない。
func (s *Store) UpdateFields(ctx context.Context, id int64, p FieldPatch) (int64, error) {
	sets := []string{}
	args := []any{}
	if p.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *p.LastName)
	}
	if p.BirthDate != nil {
		sets = append(sets, "birth_date = ?")
		args = append(args, *p.BirthDate)
	}
	if p.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *p.Age)
	}
	if p.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *p.City)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if p.PhoneNumber != nil {
		sets = append(sets, "phone_number = ?")
		args = append(args, *p.PhoneNumber)
	}
	if p.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *p.Username)
	}
	if p.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *p.PasswordHash)
	}
	if p.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *p.Role)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	q := `UPDATE customers SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateAge: 一覧取得時のキャッシュ年齢の自己修復用
func (s *Store) UpdateAge(ctx context.Context, id int64, age int) error {
	const q = `UPDATE customers SET age = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, age, id)
	return err
}

// ===== 一意性チェック =====
// 有効な利用者の間でのみ一意。DB側のUNIQUEキーが最終的な防波堤。

func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return s.taken(ctx, `SELECT COUNT(*) FROM customers WHERE email = ? AND active = 1 AND id <> ?`, email, excludeID)
}

func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	return s.taken(ctx, `SELECT COUNT(*) FROM customers WHERE username = ? AND active = 1 AND id <> ?`, username, excludeID)
}

func (s *Store) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return s.taken(ctx, `SELECT COUNT(*) FROM customers WHERE phone_number = ? AND active = 1 AND id <> ?`, phone, excludeID)
}

func (s *Store) taken(ctx context.Context, q string, value string, excludeID int64) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, q, value, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search: 条件をAND結合で動的に組み立てる。条件ゼロなら有効な全件。
func (s *Store) Search(ctx context.Context, f SearchQuery) ([]Customer, error) {
	ds := dialect.From("customers").
		Select("id", "first_name", "last_name", "age", "birth_date", "city",
			"email", "phone_number", "username", "password_hash", "role", "active").
		Where(goqu.C("active").Eq(1))

	if f.ID != nil {
		ds = ds.Where(goqu.C("id").Eq(*f.ID))
	}
	if f.FirstName != nil {
		ds = ds.Where(goqu.C("first_name").Like("%" + *f.FirstName + "%"))
	}
	if f.LastName != nil {
		ds = ds.Where(goqu.C("last_name").Like("%" + *f.LastName + "%"))
	}
	if f.Email != nil {
		ds = ds.Where(goqu.C("email").Like("%" + *f.Email + "%"))
	}
	if f.PhoneNumber != nil {
		ds = ds.Where(goqu.C("phone_number").Like("%" + *f.PhoneNumber + "%"))
	}
	if f.City != nil {
		ds = ds.Where(goqu.C("city").Like("%" + *f.City + "%"))
	}
	if f.Username != nil {
		ds = ds.Where(goqu.C("username").Like("%" + *f.Username + "%"))
	}
	if f.Role != nil {
		ds = ds.Where(goqu.C("role").Eq(*f.Role))
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
	return scanCustomers(rows)
}

func scanCustomers(rows *sql.Rows) ([]Customer, error) {
	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.BirthDate, &c.City,
			&c.Email, &c.PhoneNumber, &c.Username, &c.PasswordHash, &c.Role, &c.Active,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
