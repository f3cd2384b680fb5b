// Package validate holds the pure input validators shared by the login,
// registration, review and order forms. Validators are deterministic and
// side-effect free; they run both before submission and on every edit.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MsgPasswordLength    = "Пароль должен содержать минимум 8 символов"
	MsgPasswordUppercase = "Пароль должен содержать хотя бы одну заглавную букву"
	MsgPasswordDigit     = "Пароль должен содержать хотя бы одну цифру"
)

var (
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	digitRe     = regexp.MustCompile(`\d`)
	emailRe     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Password accumulates every violated rule, not just the first one.
func Password(value string) []string {
	var violations []string
	if utf8.RuneCountInString(value) < 8 {
		violations = append(violations, MsgPasswordLength)
	}
	if !uppercaseRe.MatchString(value) {
		violations = append(violations, MsgPasswordUppercase)
	}
	if !digitRe.MatchString(value) {
		violations = append(violations, MsgPasswordDigit)
	}
	return violations
}

func Email(value string) bool {
	return emailRe.MatchString(value)
}

type RequiredField struct {
	Label string
	Value string
}

// Required returns one violation per empty field, in the given order.
func Required(fields []RequiredField) []string {
	var violations []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			violations = append(violations, "Поле «"+f.Label+"» обязательно для заполнения")
		}
	}
	return violations
}
