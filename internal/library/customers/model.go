package customers

import "time"

// Customer は customers テーブルの1行を表す
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Age          int
	BirthDate    time.Time
	City         string
	Email        string
	PhoneNumber  string
	Username     string
	PasswordHash string
	Role         string
	Active       bool
}

// 利用者検索の条件。nil のフィールドは条件に含めない。
// テキストは部分一致、id と role は完全一致。
type SearchQuery struct {
	ID          *int64
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	City        *string
	Username    *string
	Role        *string
}

// 部分更新用のパッチ。nil のフィールドは触らない。
type FieldPatch struct {
	FirstName    *string
	LastName     *string
	BirthDate    *time.Time
	Age          *int
	City         *string
	Email        *string
	PhoneNumber  *string
	Username     *string
	PasswordHash *string
	Role         *string
}
