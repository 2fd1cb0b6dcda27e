// Package validation holds the pure input checks for the checkout
// form. Invalid input is an expected negative result, not an error:
// every function returns a boolean and never panics or errors.
package validation

import (
	"regexp"
	"strings"
)

const _cpfLength = 11

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of validating one checkout submission. Field
// names the first field that failed; Message is the localized text
// surfaced to the buyer.
type Result struct {
	Valid   bool
	Field   string
	Message string
}

// Email checks the local@domain.tld shape. No MX or DNS lookup.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Phone validates a Brazilian number: 10 or 11 digits after stripping
// formatting (with or without the leading 9).
func Phone(s string) bool {
	n := len(Digits(s))
	return n == 10 || n == _cpfLength
}

// CPF validates the 11-digit Brazilian taxpayer id: correct length,
// not all-identical digits, and both mod-11 check digits matching.
func CPF(s string) bool {
	cpf := Digits(s)
	if len(cpf) != _cpfLength {
		return false
	}
	if allSame(cpf) {
		return false
	}

	d1 := checkDigit(cpf[:9], 10)
	d2 := checkDigit(cpf[:10], 11)

	return int(cpf[9]-'0') == d1 && int(cpf[10]-'0') == d2
}

// checkDigit computes one CPF verification digit: weighted sum with
// weights startWeight down to 2, remainder < 2 maps to 0, otherwise
// 11 - remainder.
func checkDigit(digits string, startWeight int) int {
	sum := 0
	for i := range digits {
		sum += int(digits[i]-'0') * (startWeight - i)
	}
	remainder := sum % _cpfLength
	if remainder < 2 {
		return 0
	}
	return _cpfLength - remainder
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Checkout validates a whole submission and reports the first failing
// field. Document is only checked when present; gateways that need a
// tax id enforce its presence themselves.
func Checkout(name, email, phone, document string) Result {
	if strings.TrimSpace(name) == "" {
		return Result{Field: "name", Message: "Nome é obrigatório"}
	}
	if !Email(email) {
		return Result{Field: "email", Message: "Email inválido"}
	}
	if !Phone(phone) {
		return Result{Field: "phone", Message: "Celular inválido"}
	}
	if document != "" && !CPF(document) {
		return Result{Field: "document", Message: "CPF inválido"}
	}
	return Result{Valid: true}
}
