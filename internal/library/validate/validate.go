// Package validate は書き込み前に適用するフィールド単位の検証ルール。
// ストア状態に依存する一意性チェックはここではなく各サービス側で行う。
package validate

import (
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"LARS-backend/internal/platform/apperr"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	phoneRe = regexp.MustCompile(`^[\d\s\-+()]{10,15}$`)
)

const birthDateLayout = "2006-01-02"

func BookName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 {
		return apperr.ErrInvalid("book name must be between 2 and 100 characters")
	}
	return nil
}

func BookAuthor(author string) error {
	n := utf8.RuneCountInString(author)
	if n < 3 || n > 100 {
		return apperr.ErrInvalid("author name must be between 3 and 100 characters")
	}
	return nil
}

func PublishYear(year string, now time.Time) error {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1000 || y > now.Year() {
		return apperr.ErrInvalid("publish year must be a valid year between 1000 and the current year")
	}
	return nil
}

func LoanType(code int) error {
	if code < 1 || code > 3 {
		return apperr.ErrInvalid("loan type must be between 1 and 3")
	}
	return nil
}

// PersonName: firstName / lastName 共通
func PersonName(field, v string) error {
	if utf8.RuneCountInString(v) < 3 {
		return apperr.ErrInvalid(field + " must be at least 3 characters long")
	}
	return nil
}

func City(v string) error {
	if utf8.RuneCountInString(v) < 2 {
		return apperr.ErrInvalid("city must be at least 2 characters long")
	}
	return nil
}

func Email(v string) error {
	if !emailRe.MatchString(v) {
		return apperr.ErrInvalid("please provide a valid email address")
	}
	return nil
}

func Phone(v string) error {
	if !IsPhone(v) {
		return apperr.ErrInvalid("phone number must be between 10 and 15 characters and include digits, spaces, '-', '+', or '()'")
	}
	return nil
}

// IsPhone はginのbinding用カスタムバリデータからも使う
func IsPhone(v string) bool {
	return phoneRe.MatchString(v)
}

func Role(v string) error {
	if v != "user" && v != "manager" {
		return apperr.ErrInvalid(`role must be "user" or "manager"`)
	}
	return nil
}

// BirthDate: YYYY-MM-DD のみ受け付ける
func BirthDate(v string) (time.Time, error) {
	t, err := time.Parse(birthDateLayout, v)
	if err != nil {
		return time.Time{}, apperr.ErrInvalid("birthdate must be in the format YYYY-MM-DD")
	}
	return t, nil
}
