package step

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultURLTemplate — картинки вопросов в репозитории бота.
// {X} — код года, {Y} — статья, {Z} — вопрос.
const DefaultURLTemplate = "https://github.com/sasoriririi/STEP-bot/blob/main/question_images/{X}-S{Y}-Q{Z}.png?raw=true"

var placeholders = []string{"{X}", "{Y}", "{Z}"}

// Locator строит URL картинки по ссылке. Сети не трогает.
type Locator struct {
	template string
}

// NewLocator требует все три плейсхолдера, иначе разные ссылки могут дать один URL.
func NewLocator(template string) (*Locator, error) {
	if template == "" {
		template = DefaultURLTemplate
	}
	for _, p := range placeholders {
		if !strings.Contains(template, p) {
			return nil, fmt.Errorf("url template %q: missing placeholder %s", template, p)
		}
	}
	return &Locator{template: template}, nil
}

func (l *Locator) Template() string { return l.template }

// BuildURL подставляет поля ссылки; ref считается уже проверенной.
func (l *Locator) BuildURL(ref Reference) string {
	r := strings.NewReplacer(
		"{X}", ref.Year.Code(),
		"{Y}", strconv.Itoa(ref.Paper),
		"{Z}", strconv.Itoa(ref.Question),
	)
	return r.Replace(l.template)
}
