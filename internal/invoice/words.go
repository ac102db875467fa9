package invoice

import (
	"fmt"
	"strings"

	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// LocaleLatvian is the only verbalization locale invoices support.
const LocaleLatvian = "lv"

var lvOnes = []string{
	"nulle", "viens", "divi", "trīs", "četri", "pieci",
	"seši", "septiņi", "astoņi", "deviņi",
}

var lvTeens = []string{
	"desmit", "vienpadsmit", "divpadsmit", "trīspadsmit", "četrpadsmit",
	"piecpadsmit", "sešpadsmit", "septiņpadsmit", "astoņpadsmit", "deviņpadsmit",
}

var lvTens = []string{
	"", "", "divdesmit", "trīsdesmit", "četrdesmit", "piecdesmit",
	"sešdesmit", "septiņdesmit", "astoņdesmit", "deviņdesmit",
}

// VerbalizePrice spells out a money amount the way the printed invoice shows
// it, e.g. "Pieci eiro 00 centi". Only Latvian is supported; other locales
// fail with a not-implemented error.
func VerbalizePrice(amount decimal.Decimal, locale string) (string, error) {
	if locale != LocaleLatvian {
		return "", pkgerrors.New(pkgerrors.CodeNotImplemented, fmt.Sprintf("price verbalization not implemented for locale %q", locale))
	}
	if amount.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cannot verbalize a negative amount")
	}

	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	euros := cents / 100
	rest := cents % 100

	words, err := latvianWords(euros)
	if err != nil {
		return "", err
	}

	phrase := fmt.Sprintf("%s eiro %02d centi", words, rest)
	return capitalize(phrase), nil
}

func latvianWords(n int64) (string, error) {
	if n < 0 || n > 999999 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("amount %d out of verbalizable range", n))
	}
	if n == 0 {
		return lvOnes[0], nil
	}

	var parts []string

	if thousands := n / 1000; thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "tūkstotis")
		} else {
			prefix, err := latvianWords(thousands)
			if err != nil {
				return "", err
			}
			parts = append(parts, prefix, "tūkstoši")
		}
		n %= 1000
	}

	if hundreds := n / 100; hundreds > 0 {
		if hundreds == 1 {
			parts = append(parts, "simts")
		} else {
			parts = append(parts, lvOnes[hundreds], "simti")
		}
		n %= 100
	}

	switch {
	case n == 0:
	case n < 10:
		parts = append(parts, lvOnes[n])
	case n < 20:
		parts = append(parts, lvTeens[n-10])
	default:
		parts = append(parts, lvTens[n/10])
		if n%10 > 0 {
			parts = append(parts, lvOnes[n%10])
		}
	}

	return strings.Join(parts, " "), nil
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
