package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/EgorLis/stepbot/internal/discord"
	"github.com/EgorLis/stepbot/internal/selector"
	"github.com/EgorLis/stepbot/internal/step"
	"github.com/EgorLis/stepbot/internal/store"
)

// Sender — отправка текста в канал.
type Sender interface {
	Send(ctx context.Context, channelID, text string) error
}

// Gateway — входящее соединение с чатом.
type Gateway interface {
	Connect(ctx context.Context) error
	Disconnect()
}

// Questions — ядро: поиск конкретного и случайного вопроса.
type Questions interface {
	Lookup(ctx context.Context, input string) (selector.Question, error)
	SelectRandom(ctx context.Context, papers step.Papers) (selector.Question, error)
	RunDailyOnce(ctx context.Context) (selector.Question, error)
	Config() selector.Config
}

// PostLog — история ежедневных постов.
type PostLog interface {
	Posted(ctx context.Context, day string) (bool, error)
	Record(ctx context.Context, p store.DailyPost) (store.DailyPost, error)
}

type StepBot struct {
	questions Questions
	out       Sender
	gw        Gateway
	history   PostLog
	log       *zap.Logger

	prefix  string
	command string
	daily   DailySchedule
	sem     *semaphore.Weighted
	now     func() time.Time
	wait    func(ctx context.Context, d time.Duration) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	g      *errgroup.Group
	ctx    context.Context
}

func New(questions Questions, out Sender, log *zap.Logger) *StepBot {
	if log == nil {
		log = zap.NewNop()
	}
	return &StepBot{
		questions: questions,
		out:       out,
		log:       log,
		prefix:    "!",
		command:   "step",
		daily:     DailySchedule{Loc: time.UTC, Hour: 12},
		sem:       semaphore.NewWeighted(4),
		now:       time.Now,
		wait:      sleepCtx,
	}
}

// SetDiscord — клиент Discord служит и шлюзом, и отправителем.
func (bot *StepBot) SetDiscord(c *discord.Client) {
	bot.gw = c
	bot.out = c
	c.OnConnected = func(self discord.User) {
		bot.log.Info("connected", zap.String("as", self.Username))
	}
	c.OnDisconnected = func() { bot.log.Info("disconnected") }
	c.OnMessage = bot.HandleMessage
}

func (bot *StepBot) SetGateway(gw Gateway) { bot.gw = gw }

func (bot *StepBot) SetHistory(h PostLog) { bot.history = h }

func (bot *StepBot) SetDaily(d DailySchedule) {
	if d.Loc == nil {
		d.Loc = time.UTC
	}
	bot.daily = d
}

// SetCommand — префикс и имя команды ("!", "step").
func (bot *StepBot) SetCommand(prefix, command string) {
	bot.prefix, bot.command = prefix, command
}

// SetMaxInFlight — сколько команд обрабатывается одновременно.
func (bot *StepBot) SetMaxInFlight(n int64) {
	if n < 1 {
		n = 1
	}
	bot.sem = semaphore.NewWeighted(n)
}

func (bot *StepBot) Start(ctx context.Context) error {
	if bot == nil {
		return errors.New("bot is not initialized")
	}
	if bot.out == nil {
		return errors.New("no sender configured")
	}

	bot.mu.Lock()
	defer bot.mu.Unlock()
	if bot.cancel != nil {
		return errors.New("already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	if bot.gw != nil {
		if err := bot.gw.Connect(gctx); err != nil {
			cancel()
			return err
		}
	}

	switch {
	case bot.daily.Enabled && bot.daily.ChannelID == "":
		bot.log.Warn("daily: channel id is empty, daily post skipped")
	case bot.daily.Enabled:
		g.Go(func() error { return bot.dailyLoop(gctx) })
	}

	// сторож для остановки
	g.Go(func() error {
		<-gctx.Done()
		if bot.gw != nil {
			bot.gw.Disconnect()
		}
		return nil
	})

	bot.cancel, bot.g, bot.ctx = cancel, g, gctx
	return nil
}

// Stop — повторный вызов ничего не делает. Ждёт фоновые горутины.
func (bot *StepBot) Stop() {
	bot.mu.Lock()
	cancel, g := bot.cancel, bot.g
	bot.cancel, bot.g, bot.ctx = nil, nil, nil
	bot.mu.Unlock()

	if cancel != nil {
		cancel()
		_ = g.Wait()
	}
}

// spawn запускает fn в группе бота; false — бот не запущен.
func (bot *StepBot) spawn(fn func(ctx context.Context)) bool {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	if bot.g == nil || bot.ctx.Err() != nil {
		return false
	}
	ctx := bot.ctx
	bot.g.Go(func() error {
		fn(ctx)
		return nil
	})
	return true
}
