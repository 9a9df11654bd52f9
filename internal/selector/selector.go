// Package selector превращает запрос (конкретная ссылка или "случайный")
// в вопрос, картинка которого точно существует.
package selector

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/EgorLis/stepbot/internal/step"
)

const DefaultRetries = 50

// Prober — проверка существования картинки. Ошибок не бывает, только false.
type Prober interface {
	Exists(ctx context.Context, url string) bool
}

// Intn — источник случайности, [0, n).
type Intn interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type Config struct {
	LookupPapers step.Papers   `yaml:"lookup_papers"`
	RandomPapers step.Papers   `yaml:"random_papers"`
	DailyPapers  step.Papers   `yaml:"daily_papers"`
	Retries      int           `yaml:"retries"`
	MaxElapsed   time.Duration `yaml:"max_elapsed"` // 0 — без ограничения
}

// Question — найденный вопрос: ссылка, подпись и URL.
type Question struct {
	Ref   step.Reference
	Label string
	URL   string
}

type Selector struct {
	loc    *step.Locator
	prober Prober
	cfg    Config
	codec  step.Codec
	rnd    Intn
	years  []step.YearToken
	log    *zap.Logger
}

type Option func(*Selector)

// WithRand — детерминированная случайность (для тестов).
func WithRand(r Intn) Option { return func(s *Selector) { s.rnd = r } }

func WithLogger(l *zap.Logger) Option { return func(s *Selector) { s.log = l } }

// New — пустые поля Config заменяются дефолтами.
func New(loc *step.Locator, prober Prober, cfg Config, opts ...Option) *Selector {
	if cfg.LookupPapers == nil {
		cfg.LookupPapers = step.AllPapers
	}
	if cfg.RandomPapers == nil {
		cfg.RandomPapers = step.DefaultRandomPapers
	}
	if cfg.DailyPapers == nil {
		cfg.DailyPapers = cfg.RandomPapers
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}
	s := &Selector{
		loc:    loc,
		prober: prober,
		cfg:    cfg,
		codec:  step.Codec{Papers: cfg.LookupPapers},
		rnd:    globalRand{},
		years:  step.EnumerateYearTokens(),
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Selector) Config() Config { return s.cfg }

func (s *Selector) resolve(ref step.Reference) Question {
	return Question{Ref: ref, Label: ref.Label(), URL: s.loc.BuildURL(ref)}
}

// Lookup разбирает ввод пользователя (с LookupPapers) и проверяет картинку.
func (s *Selector) Lookup(ctx context.Context, input string) (Question, error) {
	ref, err := s.codec.Parse(input)
	if err != nil {
		return Question{}, err
	}
	return s.SelectSpecific(ctx, ref)
}

// SelectSpecific — ровно одна проба.
func (s *Selector) SelectSpecific(ctx context.Context, ref step.Reference) (Question, error) {
	q := s.resolve(ref)
	if !s.prober.Exists(ctx, q.URL) {
		return Question{}, &Error{Kind: NotFound, Attempts: 1}
	}
	return q, nil
}

// SelectRandom тянет случайные ссылки (с возвращением) и пробует их, не
// больше cfg.Retries раз. Отмена ctx прерывает цикл с ctx.Err().
func (s *Selector) SelectRandom(ctx context.Context, papers step.Papers) (Question, error) {
	if err := papers.Validate(); err != nil {
		return Question{}, &step.ParseError{Kind: step.OutOfRange, Input: "random", Reason: err.Error()}
	}

	probeCtx := ctx
	if s.cfg.MaxElapsed > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, s.cfg.MaxElapsed)
		defer cancel()
	}

	for attempt := 1; attempt <= s.cfg.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Question{}, err
		}
		if probeCtx.Err() != nil {
			s.log.Warn("random: time budget spent", zap.Int("attempts", attempt-1), zap.Duration("max_elapsed", s.cfg.MaxElapsed))
			return Question{}, &Error{Kind: ExhaustedRetries, Attempts: attempt - 1}
		}

		q := s.resolve(s.draw(papers))
		if s.prober.Exists(probeCtx, q.URL) {
			s.log.Debug("random: found", zap.String("ref", q.Ref.String()), zap.Int("attempt", attempt))
			return q, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	return Question{}, &Error{Kind: ExhaustedRetries, Attempts: s.cfg.Retries}
}

// RunDailyOnce — случайный вопрос для ежедневного поста.
func (s *Selector) RunDailyOnce(ctx context.Context) (Question, error) {
	return s.SelectRandom(ctx, s.cfg.DailyPapers)
}

func (s *Selector) draw(papers step.Papers) step.Reference {
	return step.Reference{
		Year:     s.years[s.rnd.IntN(len(s.years))],
		Paper:    papers[s.rnd.IntN(len(papers))],
		Question: step.MinQuestion + s.rnd.IntN(step.MaxQuestion-step.MinQuestion+1),
	}
}
