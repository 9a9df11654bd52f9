package step

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinQuestion = 1
	MaxQuestion = 16

	// коды <= centuryCutoff — это 2000-е, остальные — 1900-е
	centuryCutoff = 18

	specCode  = "Spec"
	specLabel = "Specimen"
)

// YearToken — сессия экзамена: двухзначный код года или Specimen.
// Нулевое значение невалидно.
type YearToken struct {
	code string
}

// Specimen — токен образца (Spec).
var Specimen = YearToken{code: specCode}

var (
	yearTokens = buildYearTokens()
	yearByCode = indexYearTokens(yearTokens)
)

func buildYearTokens() []YearToken {
	out := []YearToken{Specimen}
	for i := 87; i <= 99; i++ {
		out = append(out, YearToken{code: fmt.Sprintf("%02d", i)})
	}
	for i := 0; i <= centuryCutoff; i++ {
		out = append(out, YearToken{code: fmt.Sprintf("%02d", i)})
	}
	return out
}

func indexYearTokens(ts []YearToken) map[string]YearToken {
	m := make(map[string]YearToken, len(ts))
	for _, t := range ts {
		m[t.code] = t
	}
	return m
}

// EnumerateYearTokens возвращает все допустимые токены в фиксированном
// порядке: Spec, 87..99, 00..18. Возвращается копия.
func EnumerateYearTokens() []YearToken {
	out := make([]YearToken, len(yearTokens))
	copy(out, yearTokens)
	return out
}

// ParseYearToken принимает "Spec"/"Specimen" (без учёта регистра) или ровно
// две цифры из допустимого набора.
func ParseYearToken(s string) (YearToken, bool) {
	if strings.EqualFold(s, specCode) || strings.EqualFold(s, specLabel) {
		return Specimen, true
	}
	t, ok := yearByCode[s]
	return t, ok
}

// Code — каноническая короткая форма ("97", "05", "Spec"), она же идёт в URL.
func (y YearToken) Code() string { return y.code }

func (y YearToken) IsSpecimen() bool { return y.code == specCode }

// Label — год для подписи: "1997", "2005" или "Specimen".
func (y YearToken) Label() string {
	if y.IsSpecimen() {
		return specLabel
	}
	n, err := strconv.Atoi(y.code)
	if err != nil {
		return y.code
	}
	if n <= centuryCutoff {
		return "20" + y.code
	}
	return "19" + y.code
}

func (y YearToken) String() string { return y.code }

// Reference — ссылка на вопрос (год, номер статьи, номер вопроса).
// Сравнивается через ==.
type Reference struct {
	Year     YearToken
	Paper    int
	Question int
}

// Label — подпись для чата, например "STEP 2 1997, Question 1".
func (r Reference) Label() string {
	return fmt.Sprintf("STEP %d %s, Question %d", r.Paper, r.Year.Label(), r.Question)
}

// String — каноническая текстовая форма "97-S2-Q1", обратная к Parse.
func (r Reference) String() string {
	return fmt.Sprintf("%s-S%d-Q%d", r.Year.Code(), r.Paper, r.Question)
}

// FormatLabel — то же, что r.Label().
func FormatLabel(r Reference) string { return r.Label() }
