package step

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Papers — набор допустимых номеров статей (STEP 1/2/3).
type Papers []int

var (
	AllPapers           = Papers{1, 2, 3}
	DefaultRandomPapers = Papers{2, 3}
)

func (p Papers) Contains(n int) bool {
	for _, v := range p {
		if v == n {
			return true
		}
	}
	return false
}

// Validate проверяет, что набор не пустой и состоит из 1..3.
func (p Papers) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("empty paper set")
	}
	for _, v := range p {
		if !AllPapers.Contains(v) {
			return fmt.Errorf("paper %d is not one of 1, 2, 3", v)
		}
	}
	return nil
}

// Codec разбирает ссылки вида "97-S2-Q1" с учётом набора статей.
type Codec struct {
	Papers Papers
}

var defaultCodec = Codec{Papers: AllPapers}

// Parse разбирает ссылку с набором статей {1,2,3}.
func Parse(input string) (Reference, error) {
	return defaultCodec.Parse(input)
}

func (c Codec) Parse(input string) (Reference, error) {
	s := strings.TrimSpace(input)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Reference{}, malformed(input, "expected three dash-separated parts")
	}

	paper, paperDigits, err := parsePrefixed(parts[1], 'S')
	if err != nil {
		return Reference{}, malformed(input, "paper: "+err.Error())
	}
	question, questionDigits, err := parsePrefixed(parts[2], 'Q')
	if err != nil {
		return Reference{}, malformed(input, "question: "+err.Error())
	}

	year, ok := ParseYearToken(parts[0])
	if !ok {
		return Reference{}, outOfRange(input, fmt.Sprintf("unknown year %q", parts[0]))
	}
	papers := c.Papers
	if papers == nil {
		papers = AllPapers
	}
	if !papers.Contains(paper) {
		return Reference{}, outOfRange(input, fmt.Sprintf("paper %d not allowed", paper))
	}
	if question < MinQuestion || question > MaxQuestion {
		return Reference{}, outOfRange(input, fmt.Sprintf("question %d not in %d..%d", question, MinQuestion, MaxQuestion))
	}
	// ведущие нули ("S02", "Q01") не каноничны
	if paperDigits != strconv.Itoa(paper) || questionDigits != strconv.Itoa(question) {
		return Reference{}, outOfRange(input, "leading zeros")
	}

	return Reference{Year: year, Paper: paper, Question: question}, nil
}

// parsePrefixed снимает однобуквенный префикс (S/Q, регистр не важен).
// Сегмент, начинающийся с цифры, принимается и без префикса: "97-S2-1".
// После префикса допускаются только ASCII-цифры, без знака.
func parsePrefixed(seg string, prefix rune) (int, string, error) {
	if seg == "" {
		return 0, "", fmt.Errorf("empty")
	}
	r := rune(seg[0])
	switch {
	case unicode.ToUpper(r) == prefix:
		seg = seg[1:]
	case isDigit(r):
	default:
		return 0, "", fmt.Errorf("want prefix %c, got %q", prefix, seg)
	}
	if seg == "" || strings.IndexFunc(seg, func(r rune) bool { return !isDigit(r) }) >= 0 {
		return 0, "", fmt.Errorf("not a number: %q", seg)
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, "", fmt.Errorf("not a number: %q", seg)
	}
	return n, seg, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
