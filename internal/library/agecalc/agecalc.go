// Package agecalc は生年月日と基準日から年齢を導出する。
package agecalc

import "time"

const (
	MinAge = 5
	MaxAge = 120
)

// Age: 基準日が誕生日より前なら1引く
func Age(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if int(today.Month()) < int(birth.Month()) ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

func InBounds(age int) bool {
	return age >= MinAge && age <= MaxAge
}
